package dtos

// ValidationErrorDetail describes one failed field rule. Field is the JSON
// path of the offending value, e.g. "units[3].grossArea".
type ValidationErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Param   string `json:"param,omitempty"`
}
