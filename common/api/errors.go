package api

// General errors
var (
	ErrNil        = NewBusinessError(0, "Success")
	ErrValidation = NewBusinessError(1, "Invalid parameter")
	ErrInternal   = NewBusinessError(2, "Internal server error")
)

// BusinessError is the response envelope of every API call. Code 0 means
// success; Data carries the result or the error details.
type BusinessError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func NewBusinessError(code int, message string) *BusinessError {
	return &BusinessError{code, message, nil}
}

func (be *BusinessError) Error() string {
	return be.Message
}

func (be *BusinessError) WithData(data interface{}) *BusinessError {
	return &BusinessError{be.Code, be.Message, data}
}

// Is matches business errors by code, so errors.Is(err, ErrValidation)
// holds for any copy made by WithData.
func (be *BusinessError) Is(target error) bool {
	t, ok := target.(*BusinessError)
	return ok && t.Code == be.Code
}
