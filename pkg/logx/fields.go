package logx

const (
	FieldAppName      = "app-name"
	FieldAppVersion   = "app-version"
	FieldCategory     = "category"
	FieldCost         = "cost"
	FieldDurationMs   = "duration-ms"
	FieldError        = "error"
	FieldHTTPMethod   = "http-method"
	FieldHTTPRequest  = "http-request"
	FieldHTTPResponse = "http-response"
	FieldIP           = "ip"
	FieldItemID       = "item-id"
	FieldItemName     = "item-name"
	FieldPhase        = "phase"
	FieldProfit       = "profit"
	FieldRequestBody  = "request-body"
	FieldRequestID    = "request-id"
	FieldResponseBody = "response-body"
	FieldStack        = "stack"
	FieldTraceID      = "trace-id"
	FieldURL          = "url"
	FieldWorld        = "world"
)
