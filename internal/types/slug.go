package types

// Slug is a type for the slug field in the response.
// It is mainly used for the client to understand the type of the response.
type Slug string

const (
	SuccessSlug      Slug = "success"
	InvalidInputSlug Slug = "invalid-input"
	NotFoundSlug     Slug = "not-found"
	ForbiddenSlug    Slug = "forbidden"
	ConflictSlug     Slug = "conflict"
	InProgressSlug   Slug = "in-progress"
	InvalidOtpSlug   Slug = "invalid-otp"
	ExpiredOtpSlug   Slug = "expired-otp"
	ServerErrorSlug  Slug = "server-error"
	UnauthorizedSlug Slug = "unauthorized"
)

// SlugResponse is the response envelope for the API.
type SlugResponse struct {
	Slug  Slug        `json:"slug"`
	Error string      `json:"error,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

// ErrInvalidInput returns a SlugResponse with the InvalidInputSlug and the error message
func ErrInvalidInput(msg string) SlugResponse {
	return SlugResponse{
		Slug:  InvalidInputSlug,
		Error: msg,
	}
}

// ErrServer returns a SlugResponse with the ServerErrorSlug and the error message
func ErrServer(msg string) SlugResponse {
	return SlugResponse{
		Slug:  ServerErrorSlug,
		Error: msg,
	}
}

// Success returns a SlugResponse with the SuccessSlug and the data
func Success(data interface{}) SlugResponse {
	return SlugResponse{
		Slug: SuccessSlug,
		Data: data,
	}
}

// FromDomainError maps a domain error kind onto the slug vocabulary.
func FromDomainError(err error) SlugResponse {
	resp := SlugResponse{Error: err.Error()}
	switch KindOf(err) {
	case KindNotAuthenticated:
		resp.Slug = UnauthorizedSlug
	case KindNotFound:
		resp.Slug = NotFoundSlug
	case KindAuthorizationDenied:
		resp.Slug = ForbiddenSlug
	case KindInvalidStatusTransition:
		resp.Slug = InvalidInputSlug
	case KindInvalidOtp:
		resp.Slug = InvalidOtpSlug
	case KindExpiredOtp:
		resp.Slug = ExpiredOtpSlug
	case KindConflict:
		resp.Slug = ConflictSlug
	case KindOperationInProgress:
		resp.Slug = InProgressSlug
	default:
		resp.Slug = ServerErrorSlug
	}
	return resp
}
