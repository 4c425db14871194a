// Package platform delivers desktop notifications through the host's
// notification service.
package platform

// AppName identifies the sender to notification centers.
const AppName = "Proofmark"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	// Timeout is the display duration in milliseconds; zero uses the
	// platform default.
	Timeout int32
}
