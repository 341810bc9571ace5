package events

import "errors"

// ErrAccessibilityPermission indicates the host must grant Accessibility trust.
var ErrAccessibilityPermission = errors.New("macOS accessibility permission required for event capture")

// ErrTapCreation indicates the Quartz event tap could not be installed.
var ErrTapCreation = errors.New("failed to create CGEvent tap")
