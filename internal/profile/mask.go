package profile

const (
	maskVisible   = 4
	maskMinLength = 9
)

// MaskToken hides all but the first and last four characters of token.
// Short tokens are fully masked.
func MaskToken(token string) string {
	if len(token) <= maskMinLength {
		return "****"
	}
	return token[:maskVisible] + "-****-****-" + token[len(token)-maskVisible:]
}
