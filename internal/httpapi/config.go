package httpapi

// maxBodyBytes controls the maximum allowed request body size for JSON
// endpoints. Voice uploads use their own multipart limit.
var maxBodyBytes int64 = 1 << 20

// SetMaxBodyBytes allows configuring the maximum request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 1 << 20
		return
	}
	maxBodyBytes = n
}

// maxUploadBytes bounds multipart voice uploads. Reference clips are capped
// at 30 seconds of 48kHz mono 16-bit audio plus container overhead.
var maxUploadBytes int64 = 16 << 20

// SetMaxUploadBytes allows configuring the maximum voice upload size.
func SetMaxUploadBytes(n int64) {
	if n <= 0 {
		maxUploadBytes = 16 << 20
		return
	}
	maxUploadBytes = n
}

// allowVoiceUpload gates the voice upload/delete endpoints.
var allowVoiceUpload = true

// SetAllowVoiceUpload enables or disables custom voice management.
func SetAllowVoiceUpload(allow bool) { allowVoiceUpload = allow }

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}
