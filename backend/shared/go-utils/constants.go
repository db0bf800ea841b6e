package utils

const (
	OrganizationName                      = "AAHDC"
	CORSLowSecurityAllowedOriginLocalhost = "http://localhost:3000"
)
