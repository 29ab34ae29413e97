package errors

// ErrorCode identifies an application error independent of its message.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// General
const (
	ErrorCode_HTTP_OK          ErrorCode = "OK"
	ErrorCode_INTERNAL         ErrorCode = "INTERNAL"
	ErrorCode_INVALID_ARGUMENT ErrorCode = "INVALID_ARGUMENT"
	ErrorCode_INVALID_PAYLOAD  ErrorCode = "INVALID_PAYLOAD"
	ErrorCode_NOT_FOUND        ErrorCode = "NOT_FOUND"
)

// Pipeline
const (
	ErrorCode_UPLOAD_FAILED                ErrorCode = "UPLOAD_FAILED"
	ErrorCode_TRANSCRIPTION_REQUEST_FAILED ErrorCode = "TRANSCRIPTION_REQUEST_FAILED"
	ErrorCode_TRANSCRIPTION_FAILED         ErrorCode = "TRANSCRIPTION_FAILED"
	ErrorCode_TRANSCRIPTION_UNRECOVERABLE  ErrorCode = "TRANSCRIPTION_UNRECOVERABLE"
	ErrorCode_NO_ANALYZABLE_TEXT           ErrorCode = "NO_ANALYZABLE_TEXT"
	ErrorCode_COMPLETION_REQUEST_FAILED    ErrorCode = "COMPLETION_REQUEST_FAILED"
	ErrorCode_ANALYSIS_PARSE_FAILED        ErrorCode = "ANALYSIS_PARSE_FAILED"
)

// Runs and exports
const (
	ErrorCode_RUN_NOT_FOUND         ErrorCode = "RUN_NOT_FOUND"
	ErrorCode_RUN_NOT_READY         ErrorCode = "RUN_NOT_READY"
	ErrorCode_EXPORT_FAILED         ErrorCode = "EXPORT_FAILED"
	ErrorCode_INVALID_EXPORT_FORMAT ErrorCode = "INVALID_EXPORT_FORMAT"
	ErrorCode_STORE_FAILED          ErrorCode = "STORE_FAILED"
)

// Kind groups codes by how the pipeline reacts to them.
type Kind string

const (
	// KindFatal aborts the run and no result is emitted.
	KindFatal Kind = "fatal"
	// KindRecoverable is logged and replaced by a fallback value.
	KindRecoverable Kind = "recoverable"
	// KindNormalization is clamped or defaulted silently.
	KindNormalization Kind = "normalization"
	// KindRequest covers caller mistakes outside the pipeline.
	KindRequest Kind = "request"
)

var codeKinds = map[ErrorCode]Kind{
	ErrorCode_UPLOAD_FAILED:                KindFatal,
	ErrorCode_TRANSCRIPTION_UNRECOVERABLE:  KindFatal,
	ErrorCode_NO_ANALYZABLE_TEXT:           KindFatal,
	ErrorCode_TRANSCRIPTION_REQUEST_FAILED: KindRecoverable,
	ErrorCode_TRANSCRIPTION_FAILED:         KindRecoverable,
	ErrorCode_COMPLETION_REQUEST_FAILED:    KindRecoverable,
	ErrorCode_ANALYSIS_PARSE_FAILED:        KindRecoverable,
	ErrorCode_INVALID_ARGUMENT:             KindRequest,
	ErrorCode_INVALID_PAYLOAD:              KindRequest,
	ErrorCode_INVALID_EXPORT_FORMAT:        KindRequest,
	ErrorCode_NOT_FOUND:                    KindRequest,
	ErrorCode_RUN_NOT_FOUND:                KindRequest,
	ErrorCode_RUN_NOT_READY:                KindRequest,
}

// KindOf returns the kind registered for code. Unknown codes are fatal.
func KindOf(code ErrorCode) Kind {
	if k, ok := codeKinds[code]; ok {
		return k
	}
	return KindFatal
}
