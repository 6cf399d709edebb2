package service

import "errors"

var (
	ErrInvalidEmail            = errors.New("invalid email")
	ErrUsernameRequired        = errors.New("username is required")
	ErrWeakPassword            = errors.New("password does not meet policy")
	ErrEmailExists             = errors.New("email already registered")
	ErrInvalidCredentials      = errors.New("invalid email or password")
	ErrCredentialPersistFailed = errors.New("persist credential failed")
	ErrCredentialStoreFailed   = errors.New("read credential store failed")
	ErrAuthRequired            = errors.New("login required")
	ErrAuthNotReady            = errors.New("session restore in progress")
	ErrInvalidProduct          = errors.New("invalid product")
	ErrCartEmpty               = errors.New("cart is empty")
	ErrAddressInvalid          = errors.New("invalid address")
	ErrAddressNotFound         = errors.New("address not found")
	ErrAddressRequired         = errors.New("delivery address required")
	ErrOrderInvalid            = errors.New("invalid order")
	ErrOrderAmountTooLow       = errors.New("order amount below minimum")
	ErrProfileInvalid          = errors.New("invalid profile")
	ErrInvalidDeviceID         = errors.New("invalid device id")
	ErrRegistryClosed          = errors.New("storefront registry closed")
)

// loginFailure 登录失败的内部原因，对外统一表现为 ErrInvalidCredentials
type loginFailure struct {
	reason string
}

func (e loginFailure) Error() string {
	return e.reason
}

func (e loginFailure) Is(target error) bool {
	return target == ErrInvalidCredentials
}

var (
	// ErrCredentialNotFound 邮箱未注册
	ErrCredentialNotFound error = loginFailure{reason: "credential not found"}
	// ErrPasswordMismatch 密码不匹配
	ErrPasswordMismatch error = loginFailure{reason: "password mismatch"}
)
