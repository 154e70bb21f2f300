package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldOwner      = "owner"
	FieldUserID     = "user_id"
	FieldCategory   = "category"
	FieldAmount     = "amount"
	FieldDate       = "date"
	FieldTxCount    = "tx_count"
	FieldMonth      = "month"
	FieldYear       = "year"
	FieldBackend    = "backend"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentHTTP       = "http"
	ComponentStore      = "store"
	ComponentSession    = "session"
	ComponentCategories = "categories"
	ComponentStorage    = "storage"
	ComponentRemote     = "remote"
	ComponentAMQP       = "amqp"
)

// Operations defines standard operation names
const (
	OpFetch    = "fetch"
	OpAdd      = "add"
	OpList     = "list"
	OpInsert   = "insert"
	OpSignIn   = "sign_in"
	OpSignOut  = "sign_out"
	OpRender   = "render"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
