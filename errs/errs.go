package errs

import "fmt"

// Severity of a status code.
type Severity uint8

const (
	SeveritySuccess Severity = 0
	SeverityFailure Severity = 1
)

// Module identifies the module a status code originates from.
type Module uint16

const (
	ModuleUnknown Module = iota
	ModuleGeneral
	ModuleEngine
	ModuleStream
	ModuleLicense
	ModuleHandle
	ModuleCommand

	moduleMax
)

// Submodule identifies the submodule a status code originates from.
type Submodule uint8

const (
	SubmoduleUnknown Submodule = iota
	SubmoduleGeneral
	SubmoduleStream
	SubmoduleBlock
	SubmoduleCommand
	SubmoduleHandle
	SubmoduleLicense

	submoduleMax
)

// Generality distinguishes codes private to one module from codes
// shared by all of them.
type Generality uint8

const (
	GeneralityPrivate Generality = 0
	GeneralityGeneral Generality = 1
)

// Code is a packed 32-bit status word. The zero value means success.
type Code uint32

// Make packs the given fields into a Code. Fields wider than their
// slot are masked, so Make(Unpack(c)) == c for every well-formed c.
func Make(sev Severity, mod Module, sub Submodule, gen Generality, code uint8) Code {
	return Code(uint32(sev&0x1)<<31 |
		uint32(mod&0x7FFF)<<16 |
		uint32(sub)<<8 |
		uint32(gen&0x1)<<7 |
		uint32(code&0x7F))
}

// Unpack splits a Code back into its fields.
func (c Code) Unpack() (Severity, Module, Submodule, Generality, uint8) {
	return c.Severity(), c.Module(), c.Submodule(), c.Generality(), c.Value()
}

// Severity returns the severity bit.
func (c Code) Severity() Severity { return Severity(uint32(c) >> 31) }

// Module returns the module field.
func (c Code) Module() Module { return Module((uint32(c) >> 16) & 0x7FFF) }

// Submodule returns the submodule field.
func (c Code) Submodule() Submodule { return Submodule((uint32(c) >> 8) & 0xFF) }

// Generality returns the generality bit.
func (c Code) Generality() Generality { return Generality((uint32(c) >> 7) & 0x1) }

// Value returns the 7-bit condition code.
func (c Code) Value() uint8 { return uint8(uint32(c) & 0x7F) }

// IsSuccess reports whether the code is not a failure. Warnings count
// as success.
func (c Code) IsSuccess() bool { return c.Severity() == SeveritySuccess }

// IsWarning reports whether the code is a warning: severity success
// with a nonzero condition code.
func (c Code) IsWarning() bool { return c.IsSuccess() && c.Value() != 0 }

// IsFailure reports whether the code is a hard failure.
func (c Code) IsFailure() bool { return c.Severity() == SeverityFailure }

// Error implements the error interface.
func (c Code) Error() string {
	if msg, ok := messages[c.Value()]; ok {
		return msg
	}

	return fmt.Sprintf("status code 0x%08X", uint32(c))
}

// ModuleName returns a human-readable name for the module field.
func (c Code) ModuleName() string {
	if int(c.Module()) < len(moduleNames) {
		return moduleNames[c.Module()]
	}

	return "unknown"
}

// SubmoduleName returns a human-readable name for the submodule field.
func (c Code) SubmoduleName() string {
	if int(c.Submodule()) < len(submoduleNames) {
		return submoduleNames[c.Submodule()]
	}

	return "unknown"
}

var moduleNames = [...]string{
	ModuleUnknown: "unknown",
	ModuleGeneral: "general",
	ModuleEngine:  "engine",
	ModuleStream:  "stream",
	ModuleLicense: "license",
	ModuleHandle:  "handle",
	ModuleCommand: "command",
}

var submoduleNames = [...]string{
	SubmoduleUnknown: "unknown",
	SubmoduleGeneral: "general",
	SubmoduleStream:  "stream",
	SubmoduleBlock:   "block",
	SubmoduleCommand: "command",
	SubmoduleHandle:  "handle",
	SubmoduleLicense: "license",
}

// IsWarning reports whether err carries a warning Code.
func IsWarning(err error) bool {
	c, ok := err.(Code)
	return ok && c.IsWarning()
}

// IsFailure reports whether err carries a failure Code. A non-Code
// error counts as a failure.
func IsFailure(err error) bool {
	if err == nil {
		return false
	}
	if c, ok := err.(Code); ok {
		return c.IsFailure()
	}

	return true
}

// CodeOf returns the packed status word for err. nil maps to zero and
// a non-Code error maps to ErrUnexpected.
func CodeOf(err error) Code {
	if err == nil {
		return 0
	}
	if c, ok := err.(Code); ok {
		return c
	}

	return ErrUnexpected
}
