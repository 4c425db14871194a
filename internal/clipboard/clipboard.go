// Package clipboard publishes exported images to the system clipboard.
package clipboard

import "errors"

var errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
