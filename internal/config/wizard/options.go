package wizard

import "github.com/charmbracelet/huh"

var schoolLevelOptions = []huh.Option[string]{
	huh.NewOption("SD - Sekolah Dasar", "SD"),
	huh.NewOption("SMP - Sekolah Menengah Pertama", "SMP"),
	huh.NewOption("SMA - Sekolah Menengah Atas", "SMA"),
	huh.NewOption("SMK - Sekolah Menengah Kejuruan", "SMK"),
}

// The three Indonesian zones cover the vast majority of installs; anything
// else can be set in the config file directly.
var timezoneOptions = []huh.Option[string]{
	huh.NewOption("Asia/Jakarta (WIB)", "Asia/Jakarta"),
	huh.NewOption("Asia/Makassar (WITA)", "Asia/Makassar"),
	huh.NewOption("Asia/Jayapura (WIT)", "Asia/Jayapura"),
}
