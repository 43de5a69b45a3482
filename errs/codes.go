package errs

// Condition codes. The 7-bit value space is shared: values below
// failureBase are warnings, the rest are failures.
const (
	codeOK uint8 = iota
	codeAlreadyPresent
	codeEndOfStream
	codeEndOfFile
	codeInvalidBlockSkipped
	codeTimeOutOfRange
	codeEndOfBindings
	codeStreamEmpty
	codeNoDiffCorr

	codeUnexpected
	codeNotImplemented
	codeInvalidArgument
	codeNilReference
	codeOutOfRange
	codeBufferTooSmall
	codeOutOfMemory
	codeInvalidHandle
	codeWrongState
	codeReadOnly
	codeFileOpen
	codeFileRead
	codeFileWrite
	codeInvalidFile
	codeInvalidBlock
	codeInvalidID
	codeInvalidCommand
	codeInvalidTimestamp
	codeInvalidRate
	codeBlockNotFound
	codeInvalidLicense
	codePVTFailed
	codeRTCMEncodingFailed
	codeStreamNotEmpty
	codeCancelled
	codeDecompress
)

// Warnings. Severity is success so callers that only test err != nil
// must consult IsWarning before treating these as fatal.
var (
	ErrAlreadyPresent      = Make(SeveritySuccess, ModuleStream, SubmoduleStream, GeneralityGeneral, codeAlreadyPresent)
	ErrEndOfStream         = Make(SeveritySuccess, ModuleStream, SubmoduleStream, GeneralityGeneral, codeEndOfStream)
	ErrEndOfFile           = Make(SeveritySuccess, ModuleStream, SubmoduleStream, GeneralityGeneral, codeEndOfFile)
	ErrInvalidBlockSkipped = Make(SeveritySuccess, ModuleStream, SubmoduleBlock, GeneralityPrivate, codeInvalidBlockSkipped)
	ErrTimeOutOfRange      = Make(SeveritySuccess, ModuleStream, SubmoduleStream, GeneralityPrivate, codeTimeOutOfRange)
	ErrEndOfBindings       = Make(SeveritySuccess, ModuleCommand, SubmoduleCommand, GeneralityPrivate, codeEndOfBindings)
	ErrStreamEmpty         = Make(SeveritySuccess, ModuleStream, SubmoduleStream, GeneralityPrivate, codeStreamEmpty)
	ErrNoDiffCorr          = Make(SeveritySuccess, ModuleStream, SubmoduleStream, GeneralityPrivate, codeNoDiffCorr)
)

// Failures.
var (
	ErrUnexpected         = Make(SeverityFailure, ModuleGeneral, SubmoduleGeneral, GeneralityGeneral, codeUnexpected)
	ErrNotImplemented     = Make(SeverityFailure, ModuleGeneral, SubmoduleGeneral, GeneralityGeneral, codeNotImplemented)
	ErrInvalidArgument    = Make(SeverityFailure, ModuleGeneral, SubmoduleGeneral, GeneralityGeneral, codeInvalidArgument)
	ErrNilReference       = Make(SeverityFailure, ModuleGeneral, SubmoduleGeneral, GeneralityGeneral, codeNilReference)
	ErrOutOfRange         = Make(SeverityFailure, ModuleGeneral, SubmoduleGeneral, GeneralityGeneral, codeOutOfRange)
	ErrBufferTooSmall     = Make(SeverityFailure, ModuleGeneral, SubmoduleGeneral, GeneralityGeneral, codeBufferTooSmall)
	ErrOutOfMemory        = Make(SeverityFailure, ModuleGeneral, SubmoduleGeneral, GeneralityGeneral, codeOutOfMemory)
	ErrInvalidHandle      = Make(SeverityFailure, ModuleHandle, SubmoduleHandle, GeneralityGeneral, codeInvalidHandle)
	ErrWrongState         = Make(SeverityFailure, ModuleStream, SubmoduleStream, GeneralityGeneral, codeWrongState)
	ErrReadOnly           = Make(SeverityFailure, ModuleStream, SubmoduleStream, GeneralityPrivate, codeReadOnly)
	ErrFileOpen           = Make(SeverityFailure, ModuleStream, SubmoduleStream, GeneralityGeneral, codeFileOpen)
	ErrFileRead           = Make(SeverityFailure, ModuleStream, SubmoduleStream, GeneralityGeneral, codeFileRead)
	ErrFileWrite          = Make(SeverityFailure, ModuleStream, SubmoduleStream, GeneralityGeneral, codeFileWrite)
	ErrInvalidFile        = Make(SeverityFailure, ModuleStream, SubmoduleStream, GeneralityPrivate, codeInvalidFile)
	ErrInvalidBlock       = Make(SeverityFailure, ModuleStream, SubmoduleBlock, GeneralityPrivate, codeInvalidBlock)
	ErrInvalidID          = Make(SeverityFailure, ModuleStream, SubmoduleBlock, GeneralityPrivate, codeInvalidID)
	ErrInvalidCommand     = Make(SeverityFailure, ModuleCommand, SubmoduleCommand, GeneralityPrivate, codeInvalidCommand)
	ErrInvalidTimestamp   = Make(SeverityFailure, ModuleStream, SubmoduleStream, GeneralityPrivate, codeInvalidTimestamp)
	ErrInvalidRate        = Make(SeverityFailure, ModuleStream, SubmoduleStream, GeneralityPrivate, codeInvalidRate)
	ErrBlockNotFound      = Make(SeverityFailure, ModuleStream, SubmoduleStream, GeneralityPrivate, codeBlockNotFound)
	ErrInvalidLicense     = Make(SeverityFailure, ModuleLicense, SubmoduleLicense, GeneralityGeneral, codeInvalidLicense)
	ErrPVTFailed          = Make(SeverityFailure, ModuleEngine, SubmoduleGeneral, GeneralityPrivate, codePVTFailed)
	ErrRTCMEncodingFailed = Make(SeverityFailure, ModuleEngine, SubmoduleGeneral, GeneralityPrivate, codeRTCMEncodingFailed)
	ErrStreamNotEmpty     = Make(SeverityFailure, ModuleStream, SubmoduleStream, GeneralityPrivate, codeStreamNotEmpty)
	ErrCancelled          = Make(SeverityFailure, ModuleStream, SubmoduleStream, GeneralityGeneral, codeCancelled)
	ErrDecompress         = Make(SeverityFailure, ModuleStream, SubmoduleStream, GeneralityPrivate, codeDecompress)
)

var messages = map[uint8]string{
	codeOK:                  "ok",
	codeAlreadyPresent:      "object already present",
	codeEndOfStream:         "end of stream reached",
	codeEndOfFile:           "end of file reached",
	codeInvalidBlockSkipped: "invalid block skipped",
	codeTimeOutOfRange:      "timestamp out of stream range",
	codeEndOfBindings:       "end of variable bindings",
	codeStreamEmpty:         "stream is empty",
	codeNoDiffCorr:          "no differential corrections could be created",
	codeUnexpected:          "unexpected condition",
	codeNotImplemented:      "not implemented",
	codeInvalidArgument:     "invalid argument",
	codeNilReference:        "nil reference",
	codeOutOfRange:          "parameter out of range",
	codeBufferTooSmall:      "buffer too small",
	codeOutOfMemory:         "out of memory",
	codeInvalidHandle:       "invalid handle",
	codeWrongState:          "object in wrong state",
	codeReadOnly:            "stream is read only",
	codeFileOpen:            "cannot open file",
	codeFileRead:            "cannot read file",
	codeFileWrite:           "cannot write file",
	codeInvalidFile:         "invalid SBF file",
	codeInvalidBlock:        "invalid SBF block",
	codeInvalidID:           "invalid SBF block id",
	codeInvalidCommand:      "invalid command syntax",
	codeInvalidTimestamp:    "invalid timestamp",
	codeInvalidRate:         "invalid rate",
	codeBlockNotFound:       "block not found",
	codeInvalidLicense:      "invalid license",
	codePVTFailed:           "PVT computation failed",
	codeRTCMEncodingFailed:  "RTCM encoding failed",
	codeStreamNotEmpty:      "stream is not empty",
	codeCancelled:           "operation cancelled",
	codeDecompress:          "decompression failed",
}
