package models

import "time"

// StatusIncomplet is the default completion marker for a freshly submitted
// student form.
const StatusIncomplet = "incomplet"

// Student is the person-level record a guardian fills in through a token.
// Every descriptive column is nullable: the form is submitted sparsely and
// merged over successive submissions. Field names follow the French form
// vocabulary used on the wire.
type Student struct {
	ID                    string    `db:"id" json:"id"`
	TripID                string    `db:"trip_id" json:"trip_id"`
	Nom                   *string   `db:"nom" json:"nom"`
	Prenom                *string   `db:"prenom" json:"prenom"`
	Naissance             *string   `db:"naissance" json:"naissance"`
	Sexe                  *string   `db:"sexe" json:"sexe"`
	Nationalite           *string   `db:"nationalite" json:"nationalite"`
	DocType               *string   `db:"doc_type" json:"doc_type"`
	DocNumber             *string   `db:"doc_number" json:"doc_number"`
	DocExpiration         *string   `db:"doc_expiration" json:"doc_expiration"`
	Adresse               *string   `db:"adresse" json:"adresse"`
	Email                 *string   `db:"email" json:"email"`
	Tel                   *string   `db:"tel" json:"tel"`
	ContactNom            *string   `db:"contact_nom" json:"contact_nom"`
	ContactLien           *string   `db:"contact_lien" json:"contact_lien"`
	ContactTel            *string   `db:"contact_tel" json:"contact_tel"`
	Allergies             *bool     `db:"allergies" json:"allergies"`
	AllergiesDetails      *string   `db:"allergies_details" json:"allergies_details"`
	PAI                   *bool     `db:"pai" json:"pai"`
	PAIRef                *string   `db:"pai_ref" json:"pai_ref"`
	AutorisationParentale *bool     `db:"autorisation_parentale" json:"autorisation_parentale"`
	Status                *string   `db:"status" json:"status"`
	CreatedAt             time.Time `db:"created_at" json:"created_at"`
}

// StudentUpdate is the sparse submission payload: only fields present in the
// request body are applied. It is a structured partial record so the writable
// field set stays statically checkable.
type StudentUpdate struct {
	Nom                   *string `json:"nom"`
	Prenom                *string `json:"prenom"`
	Naissance             *string `json:"naissance"`
	Sexe                  *string `json:"sexe"`
	Nationalite           *string `json:"nationalite"`
	DocType               *string `json:"doc_type"`
	DocNumber             *string `json:"doc_number"`
	DocExpiration         *string `json:"doc_expiration"`
	Adresse               *string `json:"adresse"`
	Email                 *string `json:"email" validate:"omitempty,email"`
	Tel                   *string `json:"tel"`
	ContactNom            *string `json:"contact_nom"`
	ContactLien           *string `json:"contact_lien"`
	ContactTel            *string `json:"contact_tel"`
	Allergies             *bool   `json:"allergies"`
	AllergiesDetails      *string `json:"allergies_details"`
	PAI                   *bool   `json:"pai"`
	PAIRef                *string `json:"pai_ref"`
	AutorisationParentale *bool   `json:"autorisation_parentale"`
	Status                *string `json:"status"`
}

// Apply merges the set fields of the update into the student, leaving absent
// fields untouched.
func (u StudentUpdate) Apply(s *Student) {
	if u.Nom != nil {
		s.Nom = u.Nom
	}
	if u.Prenom != nil {
		s.Prenom = u.Prenom
	}
	if u.Naissance != nil {
		s.Naissance = u.Naissance
	}
	if u.Sexe != nil {
		s.Sexe = u.Sexe
	}
	if u.Nationalite != nil {
		s.Nationalite = u.Nationalite
	}
	if u.DocType != nil {
		s.DocType = u.DocType
	}
	if u.DocNumber != nil {
		s.DocNumber = u.DocNumber
	}
	if u.DocExpiration != nil {
		s.DocExpiration = u.DocExpiration
	}
	if u.Adresse != nil {
		s.Adresse = u.Adresse
	}
	if u.Email != nil {
		s.Email = u.Email
	}
	if u.Tel != nil {
		s.Tel = u.Tel
	}
	if u.ContactNom != nil {
		s.ContactNom = u.ContactNom
	}
	if u.ContactLien != nil {
		s.ContactLien = u.ContactLien
	}
	if u.ContactTel != nil {
		s.ContactTel = u.ContactTel
	}
	if u.Allergies != nil {
		s.Allergies = u.Allergies
	}
	if u.AllergiesDetails != nil {
		s.AllergiesDetails = u.AllergiesDetails
	}
	if u.PAI != nil {
		s.PAI = u.PAI
	}
	if u.PAIRef != nil {
		s.PAIRef = u.PAIRef
	}
	if u.AutorisationParentale != nil {
		s.AutorisationParentale = u.AutorisationParentale
	}
	if u.Status != nil {
		s.Status = u.Status
	}
}
