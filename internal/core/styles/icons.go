package styles

import "github.com/colonyops/catalog/internal/core/notify"

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconCatalog  = "\U000F0A2D" // 󰨭
	IconProduct  = "\uf1b2"     // 
	IconCalendar = "\uf073"     // 
	IconLink     = "\uf0c1"     // 
	IconSearch   = "\uf002"     // 
)

// Notification level icons.
var (
	IconSuccess = "\uf00c" // 
	IconError   = "\uf00d" // 
	IconWarning = "\uf071" // 
	IconInfo    = "\uf05a" // 
)

// LevelIcon returns the icon shown next to a notification of level.
func LevelIcon(level notify.Level) string {
	switch level {
	case notify.LevelSuccess:
		return IconSuccess
	case notify.LevelError:
		return IconError
	case notify.LevelWarning:
		return IconWarning
	default:
		return IconInfo
	}
}
