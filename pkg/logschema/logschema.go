package logschema

// Field names and schema id shared by every structured diagnostic line.
const (
	SchemaID    = "flexlog.log.v1"
	FieldSchema = "log_schema"

	FieldTimestamp = "ts"
	FieldLevel     = "level"
	FieldMessage   = "msg"
	FieldLogger    = "logger"
	FieldCaller    = "caller"
	FieldStack     = "stack"

	FieldComponent = "component"
	FieldEvent     = "event"
	FieldResult    = "result"
	FieldError     = "error"
	FieldSink      = "sink"
	FieldRecordID  = "record_id"
	FieldBatchSize = "batch_size"
)

// Result values used with FieldResult.
const (
	ResultSuccess = "SUCCESS"
	ResultFailure = "FAILURE"
)
