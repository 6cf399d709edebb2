package constants

// 本地存储键常量（每个 store 独占一个键，互不共享）
const (
	StorageKeyCart          = "@ecomm_cart"
	StorageKeyWishlist      = "@wishlist"
	StorageKeyCredentials   = "@registered_users"
	StorageKeySession       = "@user_data"
	StorageKeyAddresses     = "@user_addresses"
	StorageKeyOrders        = "@user_orders"
	StorageKeyProfile       = "@user_profile"
	StorageKeyEmailLogs     = "@email_logs"
	StorageNamespaceDefault = "default"
)

// 存储驱动常量
const (
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"
	StorageDriverRedis    = "redis"
	StorageDriverMemory   = "memory"
)

// 订单状态常量
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// 标识前缀常量
const (
	IDPrefixUser    = "user_"
	IDPrefixAddress = "addr_"
	IDPrefixOrder   = "order_"
)

// 通知类型常量
const (
	NotificationTypeRegistration = "registration"
	NotificationTypeLogin        = "login"
	NotificationTypeOrderSuccess = "order_success"
	NotificationTypeOrderFailure = "order_failure"
)

// 通知失败日志后缀
const NotificationFailedSuffix = "_failed"

// 通知日志最多保留条数
const NotificationLogLimit = 50

// 订单失败默认原因
const OrderFailureReasonDefault = "Payment processing failed"

// 邮件中继接口路径
const (
	RelayPathRegistration = "/api/send-registration"
	RelayPathLogin        = "/api/send-login"
	RelayPathOrderSuccess = "/api/send-order-success"
	RelayPathOrderFailure = "/api/send-order-failure"
	RelayPathHealth       = "/health"
)

// 队列常量
const (
	QueueDefault         = "default"
	TaskNotificationSend = "notification:send"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "sf"
)

// 请求上下文键常量
const (
	ContextKeyRequestID  = "request_id"
	ContextKeyDeviceID   = "device_id"
	ContextKeyUserID     = "user_id"
	ContextKeyUserEmail  = "user_email"
	ContextKeyStorefront = "storefront"
	HeaderDeviceID       = "X-Device-ID"
)

// 币种常量
const (
	CurrencyDefault = "INR"
)
