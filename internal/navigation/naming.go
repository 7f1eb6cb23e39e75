package navigation

import "strings"

const (
	logicSegment   = ".ViewModels."
	surfaceSegment = ".Views."
	logicSuffix    = "ViewModel"
)

// ResolveSurfaceIdentity maps "<Root>.ViewModels.<Name>ViewModel" to
// "<Root>.Views.<Name>". The last ".ViewModels." segment is the one replaced,
// so a root that itself contains the segment resolves correctly. Root and Name
// must be non-empty.
func ResolveSurfaceIdentity(logicIdentity string) (string, error) {
	i := strings.LastIndex(logicIdentity, logicSegment)
	if i <= 0 {
		return "", &NamingConventionViolationError{Identity: logicIdentity}
	}
	root := logicIdentity[:i]
	name := strings.TrimSuffix(logicIdentity[i+len(logicSegment):], logicSuffix)
	if name == "" {
		return "", &NamingConventionViolationError{Identity: logicIdentity}
	}
	return root + surfaceSegment + name, nil
}

// LogicIdentity builds the identity a logic type reports for root and name.
func LogicIdentity(root, name string) string {
	return root + logicSegment + name + logicSuffix
}

// SurfaceIdentity builds the identity of the surface paired with
// LogicIdentity(root, name).
func SurfaceIdentity(root, name string) string {
	return root + surfaceSegment + name
}
