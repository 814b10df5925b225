package errno

// Errno defines the error code logic
type Errno struct {
	Code    int
	Message string
}

func (e Errno) Error() string {
	return e.Message
}

// WithMessage returns a copy carrying the underlying human-readable message.
// 用于透传钱包/网络返回的原始错误信息 (例如用户在钱包里点了拒绝)。
func (e Errno) WithMessage(msg string) Errno {
	if msg == "" {
		return e
	}
	return Errno{Code: e.Code, Message: msg}
}

// Is allows errors.Is matching by code.
func (e Errno) Is(target error) bool {
	t, ok := target.(Errno)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Decode tries to convert an error to Errno
func Decode(err error) (int, string) {
	if err == nil {
		return OK.Code, OK.Message
	}

	switch typed := err.(type) {
	case *Errno:
		return typed.Code, typed.Message
	case Errno:
		return typed.Code, typed.Message
	default:
		return InternalServerError.Code, err.Error()
	}
}

// Common Errors
var (
	OK                  = Errno{Code: 0, Message: "Success"}
	InternalServerError = Errno{Code: 10001, Message: "Internal server error"}
	ErrBind             = Errno{Code: 10002, Message: "Error occurred while binding the request body to the struct"}
	ErrDatabase         = Errno{Code: 10004, Message: "Database error"}
)

// Session Errors (20100+)
var (
	ErrNoWalletFound = Errno{Code: 20101, Message: "No wallet connector available"}
	ErrUserRejected  = Errno{Code: 20102, Message: "User rejected the request"}
	ErrTransport     = Errno{Code: 20103, Message: "Transport error"}
	ErrNotConnected  = Errno{Code: 20104, Message: "Wallet not connected"}
)

// Tip Validation Errors (20200+)
var (
	ErrInvalidRecipient = Errno{Code: 20201, Message: "Invalid recipient identifier"}
	ErrInvalidAmount    = Errno{Code: 20202, Message: "Invalid tip amount"}
	ErrAmountTooLarge   = Errno{Code: 20203, Message: "Tip amount exceeds the per-transaction ceiling"}
)

// Tip Link Errors (20300+)
var (
	ErrLinkNotFound = Errno{Code: 20301, Message: "Tip link not found"}
)
