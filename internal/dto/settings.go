package dto

// UpdateSettingsRequest toggles the caller's validation mode.
type UpdateSettingsRequest struct {
	ValidationMode string `json:"validationMode" binding:"required,oneof=beginner pro"`
}

// SettingsResponse defines the data returned for user settings.
type SettingsResponse struct {
	ValidationMode string `json:"validationMode"`
}
