package types

type SessionState string

const (
	StateIdle              SessionState = "idle"
	StateAwaitInputFormat  SessionState = "await_input_format"
	StateAwaitOutputFormat SessionState = "await_output_format"
	StateAwaitFile         SessionState = "await_file"
	StateAwaitMedia        SessionState = "await_media"
	StateProcessing        SessionState = "processing"
)

type FlowKind string

const (
	FlowConvert      FlowKind = "convert"
	FlowExtractAudio FlowKind = "extract_audio"
	FlowRemoveAudio  FlowKind = "remove_audio"
)

type JobStatus string

const (
	JobQueued      JobStatus = "queued"
	JobDownloading JobStatus = "downloading"
	JobConverting  JobStatus = "converting"
	JobUploading   JobStatus = "uploading"
	JobCleaningUp  JobStatus = "cleaning_up"
	JobSucceeded   JobStatus = "succeeded"
	JobFailed      JobStatus = "failed"
)
