package models

// OCRFields is the field set extracted from an identity document. The current
// extractor is a placeholder collaborator returning fixed sample values.
type OCRFields struct {
	Nom           string `json:"nom"`
	Prenom        string `json:"prenom"`
	Naissance     string `json:"naissance"`
	Nationalite   string `json:"nationalite"`
	DocNumber     string `json:"doc_number"`
	DocExpiration string `json:"doc_expiration"`
}
