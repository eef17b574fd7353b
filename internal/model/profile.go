package model

// Profile holds user metadata shown alongside suggestions and reports.
type Profile struct {
	Name               string   `json:"name"`
	Age                string   `json:"age"`
	Gender             string   `json:"gender"`
	KnownConditions    []string `json:"known_gi_conditions"`
	CurrentMedications []string `json:"current_medications"`
	Allergies          []string `json:"allergies"`
	EmergencyContact   string   `json:"emergency_contact"`
	HealthcareProvider string   `json:"healthcare_provider"`
	Created            string   `json:"profile_created"`
	LastUpdated        string   `json:"last_updated"`
}
