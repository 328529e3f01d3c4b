package errors

// Error codes for llvmopt
// These codes are used in diagnostics and documentation
// to provide consistent error identification across the tools.
//
// Error code ranges:
// E0001-E0099: Input and IR errors
// E0100-E0199: Target errors
// E0200-E0299: Pipeline errors
// E0300-E0399: Output errors
// E0400-E0899: Reserved for future use
// W0001-W0099: Warning codes
// E0900-E0999: Tooling and configuration errors

const (
	// E0001: Textual IR that does not parse
	ErrorInvalidIR = "E0001"

	// E0002: Bitcode that does not parse
	ErrorInvalidBitcode = "E0002"

	// E0003: Module rejected by the verifier
	ErrorVerificationFailed = "E0003"

	// E0004: Input file that cannot be read
	ErrorUnreadableInput = "E0004"

	// E0005: Function lookup errors
	ErrorUndefinedFunction = "E0005"
)

const (
	// E0100: Triple with no registered target
	ErrorUnknownTarget = "E0100"

	// E0101: Target machine creation errors
	ErrorTargetMachine = "E0101"
)

const (
	// E0200: Optimization level text that does not parse
	ErrorInvalidLevel = "E0200"

	// E0201: Module left invalid by the pipeline
	ErrorPipelineBrokeModule = "E0201"
)

const (
	// E0300: Output that cannot be written
	ErrorWriteOutput = "E0300"

	// E0301: Assembly or object emission errors
	ErrorCodeGeneration = "E0301"
)

const (
	// W0001: Verification disabled
	WarningUnverified = "W0001"

	// W0002: Function with no body
	WarningDeclarationOnly = "W0002"
)

const (
	// E0900: Configuration file errors
	ErrorInvalidConfig = "E0900"

	// E0901: Linked LLVM outside the supported range
	ErrorUnsupportedLLVM = "E0901"
)

// ErrorDescriptions maps error codes to their descriptions for documentation
var ErrorDescriptions = map[string]string{
	ErrorInvalidIR:           "Textual LLVM IR could not be parsed",
	ErrorInvalidBitcode:      "LLVM bitcode could not be parsed",
	ErrorVerificationFailed:  "Module failed LLVM verification",
	ErrorUnreadableInput:     "Input file could not be read",
	ErrorUndefinedFunction:   "Function not found in module",
	ErrorUnknownTarget:       "No target registered for triple",
	ErrorTargetMachine:       "Target machine could not be created",
	ErrorInvalidLevel:        "Invalid optimization level",
	ErrorPipelineBrokeModule: "Module invalid after optimization",
	ErrorWriteOutput:         "Output could not be written",
	ErrorCodeGeneration:      "Code generation failed",
	WarningUnverified:        "Verification disabled",
	WarningDeclarationOnly:   "Function is only declared",
	ErrorInvalidConfig:       "Invalid configuration",
	ErrorUnsupportedLLVM:     "Unsupported LLVM version",
}

// GetErrorDescription returns the description for an error code
func GetErrorDescription(code string) string {
	if desc, exists := ErrorDescriptions[code]; exists {
		return desc
	}
	return "Unknown error"
}

// IsWarning returns true if the code represents a warning
func IsWarning(code string) bool {
	return len(code) > 0 && code[0] == 'W'
}

// GetErrorCategory returns the category of the error based on its code
func GetErrorCategory(code string) string {
	switch {
	case code == "":
		return "Unknown"
	case code[0] == 'W':
		return "Warning"
	case code >= "E0001" && code < "E0100":
		return "Input"
	case code >= "E0100" && code < "E0200":
		return "Target"
	case code >= "E0200" && code < "E0300":
		return "Pipeline"
	case code >= "E0300" && code < "E0400":
		return "Output"
	case code >= "E0900" && code < "E1000":
		return "Tooling"
	default:
		return "Unknown"
	}
}
