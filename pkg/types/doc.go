// Package types defines the Todo entity, the Store and Backend interfaces
// that persist it, configuration, and the error taxonomy shared by every
// layer of the todos system.
package types
