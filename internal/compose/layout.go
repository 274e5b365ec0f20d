// Package compose renders every per-tier configuration artifact of the stack:
// environment file, container composition definitions for both deployment
// modes, reverse-proxy server block and process-pool settings.
//
// Rendering is pure templating: identical inputs always produce identical
// output. Secrets are inputs here; their once-only generation and
// preservation across re-renders is owned by the credentials package.
package compose

// AppDir is the application directory owning all persisted state.
const AppDir = "/opt/sekolahku"

// Persisted artifact locations inside AppDir.
const (
	EnvPath             = AppDir + "/.env"
	CredentialsPath     = AppDir + "/credentials.txt"
	ComposeStandardPath = AppDir + "/docker-compose.yml"
	ComposeHighPerfPath = AppDir + "/docker-compose.highperf.yml"
	NginxConfPath       = AppDir + "/nginx/sekolahku.conf"
	FPMConfPath         = AppDir + "/php/www.conf"
	BackupDir           = AppDir + "/backups"
)

// Mode is one of the two complete configuration profiles a provisioned stack
// can run under. Both reference identical named volumes, so switching never
// loses data.
type Mode string

// Deployment modes.
const (
	ModeStandard        Mode = "standard"
	ModeHighPerformance Mode = "highperf"
)

// ComposeFilePath returns the composition definition for a mode.
func ComposeFilePath(m Mode) string {
	if m == ModeHighPerformance {
		return ComposeHighPerfPath
	}
	return ComposeStandardPath
}

// Project is the compose project name; container names derive from it.
const Project = "sekolahku"

// Fixed container names. The high-performance set carries the -hp suffix so
// the active mode can be derived from live container inspection alone.
const (
	ContainerApp     = "sekolahku-app"
	ContainerAppHP   = "sekolahku-app-hp"
	ContainerDB      = "sekolahku-db"
	ContainerDBHP    = "sekolahku-db-hp"
	ContainerCache   = "sekolahku-cache"
	ContainerCacheHP = "sekolahku-cache-hp"
	ContainerQueue   = "sekolahku-queue"
	ContainerQueueHP = "sekolahku-queue-hp"
	ContainerCron    = "sekolahku-cron"
	ContainerCronHP  = "sekolahku-cron-hp"
)

// Named volumes shared verbatim by both modes.
const (
	VolumeDBData     = "sekolahku-db-data"
	VolumeCacheData  = "sekolahku-cache-data"
	VolumeAppStorage = "sekolahku-app-storage"
)

// DatabaseName is the schema the application uses.
const DatabaseName = "sekolahku"

// DatabaseUser is the application's database account.
const DatabaseUser = "sekolahku"

// AppPort is the loopback port the host reverse proxy forwards to.
const AppPort = 8080
