package core

// Logger is the structured logging surface used by every runtime
// component. Implementations attach the given fields to the
// emitted record along with any fields accumulated via WithFields.
type Logger interface {
	// Debug emits a record at debug severity.
	Debug(msg string, fields ...LogField)
	// Info emits a record at info severity.
	Info(msg string, fields ...LogField)
	// Warn emits a record at warn severity.
	Warn(msg string, fields ...LogField)
	// Error emits a record at error severity.
	Error(msg string, fields ...LogField)
	// WithFields derives a logger whose every record carries the
	// given fields in addition to its own.
	WithFields(fields ...LogField) Logger
	// Named derives a logger labelled with a subsystem name.
	// Nesting concatenates names with a period (so a logger named
	// "registry" then "plugins" labels records
	// "registry.plugins"), which keeps subsystem filtering cheap.
	Named(name string) Logger
}

// LogField is one key-value attachment on a log record. A field
// carries exactly one of the supported payloads, selected by Type;
// the remaining slots are ignored. Structured payloads beyond
// string slices are intentionally unsupported: flatten them into
// several fields or format them into a string first.
type LogField struct {
	Type      LogFieldType
	Key       string
	String    string
	Integer   int64
	Bool      bool
	Err       error
	Interface interface{}
}

// StringLogField builds a field carrying a string payload.
func StringLogField(key, value string) LogField {
	return LogField{
		Type:   StringLogFieldType,
		Key:    key,
		String: value,
	}
}

// IntegerLogField builds a field carrying an integer payload.
func IntegerLogField(key string, value int64) LogField {
	return LogField{
		Type:    IntegerLogFieldType,
		Key:     key,
		Integer: value,
	}
}

// BoolLogField builds a field carrying a boolean payload.
func BoolLogField(key string, value bool) LogField {
	return LogField{
		Type: BoolLogFieldType,
		Key:  key,
		Bool: value,
	}
}

// ErrorLogField builds a field carrying an error payload.
func ErrorLogField(key string, value error) LogField {
	return LogField{
		Type: ErrorLogFieldType,
		Key:  key,
		Err:  value,
	}
}

// UidLogField builds a field carrying a Uid, recorded in its
// canonical textual form.
func UidLogField(key string, value Uid) LogField {
	return LogField{
		Type:   UidLogFieldType,
		Key:    key,
		String: value.String(),
	}
}

// StringsLogField builds a field carrying a slice of strings.
func StringsLogField(key string, values []string) LogField {
	return LogField{
		Type:      StringsLogFieldType,
		Key:       key,
		Interface: values,
	}
}

// LogFieldType selects which payload slot of a LogField holds the
// value.
type LogFieldType int

const (
	// StringLogFieldType marks a string payload.
	StringLogFieldType LogFieldType = iota
	// IntegerLogFieldType marks an integer payload.
	IntegerLogFieldType
	// BoolLogFieldType marks a boolean payload.
	BoolLogFieldType
	// ErrorLogFieldType marks an error payload.
	ErrorLogFieldType
	// UidLogFieldType marks a Uid payload in canonical textual
	// form.
	UidLogFieldType
	// StringsLogFieldType marks a string-slice payload.
	StringsLogFieldType
)

// NopLogger discards every record. It is the sink installed when a
// component is handed no logger at all.
type NopLogger struct{}

// NewNopLogger returns a logger that discards everything sent to
// it.
func NewNopLogger() Logger {
	return &NopLogger{}
}

func (l *NopLogger) Debug(msg string, fields ...LogField) {}

func (l *NopLogger) Info(msg string, fields ...LogField) {}

func (l *NopLogger) Warn(msg string, fields ...LogField) {}

func (l *NopLogger) Error(msg string, fields ...LogField) {}

func (l *NopLogger) WithFields(fields ...LogField) Logger {
	return l
}

func (l *NopLogger) Named(name string) Logger {
	return l
}
