package compose

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sekolahku/skdeploy/internal/config"
	"github.com/sekolahku/skdeploy/internal/credentials"
	"github.com/sekolahku/skdeploy/internal/resources"
)

// Container images. Pinned majors; patch upgrades arrive via `skdeploy update`.
const (
	appImage   = "sekolahku/app:2"
	dbImage    = "mariadb:11"
	cacheImage = "redis:7-alpine"
)

// Composer renders all artifacts for both modes from one validated input set.
type Composer struct {
	Config      *config.Config
	Resources   resources.Profile
	Credentials *credentials.Credentials
}

// New returns a Composer over the given inputs.
func New(cfg *config.Config, res resources.Profile, creds *credentials.Credentials) *Composer {
	return &Composer{Config: cfg, Resources: res, Credentials: creds}
}

// checkInterpolation guards the interpolation boundary: every user-supplied string
// must pass the character-class validator before it is rendered into any
// artifact, regardless of which code path got it here.
func (c *Composer) checkInterpolation() error {
	if !config.SafeText(c.Config.SchoolName) {
		return fmt.Errorf("refusing to render: SCHOOL_NAME failed interpolation safety check")
	}
	if !config.SafeText(c.Config.Domain) {
		return fmt.Errorf("refusing to render: DOMAIN failed interpolation safety check")
	}
	return nil
}

// EnvFile renders the application environment file consumed by the deployed
// stack. Deterministic: keys are emitted in fixed order.
func (c *Composer) EnvFile() (string, error) {
	if err := c.checkInterpolation(); err != nil {
		return "", err
	}

	scheme := "https"
	debug := "false"
	if c.Config.Profile == config.ProfileDev {
		scheme = "http"
		debug = "true"
	}

	pairs := [][2]string{
		{"APP_NAME", c.Config.SchoolName},
		{"APP_ENV", string(c.Config.Profile)},
		{"APP_KEY", c.Credentials.AppKey},
		{"APP_DEBUG", debug},
		{"APP_URL", scheme + "://" + c.Config.Domain},
		{"APP_TIMEZONE", c.Config.Timezone},
		{"SCHOOL_LEVEL", string(c.Config.SchoolLevel)},
		{"DB_CONNECTION", "mysql"},
		{"DB_HOST", "db"},
		{"DB_PORT", "3306"},
		{"DB_DATABASE", DatabaseName},
		{"DB_USERNAME", DatabaseUser},
		{"DB_PASSWORD", c.Credentials.DBPassword},
		{"REDIS_HOST", "cache"},
		{"REDIS_PORT", "6379"},
		{"CACHE_DRIVER", "redis"},
		{"QUEUE_CONNECTION", "redis"},
		{"SESSION_DRIVER", "redis"},
		{"FILESYSTEM_DISK", "local"},
		{"SKDEPLOY_PROFILE", string(c.Config.Profile)},
	}

	var b strings.Builder
	for _, kv := range pairs {
		fmt.Fprintf(&b, "%s=%s\n", kv[0], kv[1])
	}
	return b.String(), nil
}

// service is one compose service definition.
type service struct {
	Image         string   `yaml:"image"`
	ContainerName string   `yaml:"container_name"`
	Restart       string   `yaml:"restart"`
	Command       string   `yaml:"command,omitempty"`
	EnvFile       []string `yaml:"env_file,omitempty"`
	Environment   []string `yaml:"environment,omitempty"`
	Ports         []string `yaml:"ports,omitempty"`
	Volumes       []string `yaml:"volumes,omitempty"`
	DependsOn     []string `yaml:"depends_on,omitempty"`
}

// services enumerates the stack's service definitions. A struct rather than
// a map keeps marshalled output byte-stable across renders.
type services struct {
	App   service `yaml:"app"`
	DB    service `yaml:"db"`
	Cache service `yaml:"cache"`
	Queue service `yaml:"queue"`
	Cron  service `yaml:"cron"`
}

// volumes enumerates the named volumes shared by both modes.
type volumes struct {
	DBData     struct{} `yaml:"sekolahku-db-data"`
	CacheData  struct{} `yaml:"sekolahku-cache-data"`
	AppStorage struct{} `yaml:"sekolahku-app-storage"`
}

// project is a compose file.
type project struct {
	Name     string   `yaml:"name"`
	Services services `yaml:"services"`
	Volumes  volumes  `yaml:"volumes"`
}

// ComposeFile renders the container composition definition for a mode.
// Both modes share identical named volumes; the high-performance mode runs
// the application server with doubled workers, a raised database connection
// ceiling, and -hp container names so the active mode is observable.
func (c *Composer) ComposeFile(m Mode) ([]byte, error) {
	if err := c.checkInterpolation(); err != nil {
		return nil, err
	}

	params := c.Resources.Params
	suffix := ""
	appWorkers := params.Workers
	maxConns := 100
	appCommand := ""
	if m == ModeHighPerformance {
		suffix = "-hp"
		appWorkers = params.Workers * 2
		maxConns = 300
		appCommand = fmt.Sprintf("php artisan octane:start --host=0.0.0.0 --port=80 --workers=%d", appWorkers)
	}

	p := project{
		Name: Project,
		Services: services{
			App: service{
				Image:         appImage,
				ContainerName: ContainerApp + suffix,
				Restart:       "unless-stopped",
				Command:       appCommand,
				EnvFile:       []string{EnvPath},
				Environment:   []string{fmt.Sprintf("PHP_FPM_WORKERS=%d", appWorkers)},
				Ports:         []string{fmt.Sprintf("127.0.0.1:%d:80", AppPort)},
				Volumes: []string{
					VolumeAppStorage + ":/var/www/storage",
					FPMConfPath + ":/usr/local/etc/php-fpm.d/www.conf:ro",
				},
				DependsOn: []string{"db", "cache"},
			},
			DB: service{
				Image:         dbImage,
				ContainerName: ContainerDB + suffix,
				Restart:       "unless-stopped",
				Command: fmt.Sprintf("--innodb-buffer-pool-size=%s --max-connections=%d",
					params.DBBufferSize, maxConns),
				Environment: []string{
					"MARIADB_DATABASE=" + DatabaseName,
					"MARIADB_USER=" + DatabaseUser,
					"MARIADB_PASSWORD=" + c.Credentials.DBPassword,
					"MARIADB_ROOT_PASSWORD=" + c.Credentials.DBPassword,
				},
				Volumes: []string{VolumeDBData + ":/var/lib/mysql"},
			},
			Cache: service{
				Image:         cacheImage,
				ContainerName: ContainerCache + suffix,
				Restart:       "unless-stopped",
				Command: fmt.Sprintf("redis-server --maxmemory %s --maxmemory-policy allkeys-lru",
					params.CacheMemoryCap),
				Volumes: []string{VolumeCacheData + ":/data"},
			},
			Queue: service{
				Image:         appImage,
				ContainerName: ContainerQueue + suffix,
				Restart:       "unless-stopped",
				Command:       fmt.Sprintf("php artisan queue:work --tries=3 --max-jobs=%d", 500*appWorkers),
				EnvFile:       []string{EnvPath},
				Volumes:       []string{VolumeAppStorage + ":/var/www/storage"},
				DependsOn:     []string{"db", "cache"},
			},
			Cron: service{
				Image:         appImage,
				ContainerName: ContainerCron + suffix,
				Restart:       "unless-stopped",
				Command:       "php artisan schedule:work",
				EnvFile:       []string{EnvPath},
				Volumes:       []string{VolumeAppStorage + ":/var/www/storage"},
				DependsOn:     []string{"db"},
			},
		},
		Volumes: volumes{},
	}

	return yaml.Marshal(p)
}

// ServiceNames returns the compose service names in definition order.
func ServiceNames() []string {
	return []string{"app", "db", "cache", "queue", "cron"}
}
