package compose

import (
	"bytes"
	"fmt"
	"text/template"
)

// The proxy and process-pool templates are opaque text: their literal syntax
// belongs to nginx and php-fpm, not to this tool. Only the interpolated
// fields are ours to validate.

var nginxTemplate = template.Must(template.New("nginx").Parse(`server {
    listen 80;
    server_name {{.Domain}};
{{if .TLS}}
    location /.well-known/acme-challenge/ {
        root /var/www/certbot;
    }

    location / {
        return 301 https://$host$request_uri;
    }
}

server {
    listen 443 ssl http2;
    server_name {{.Domain}};

    ssl_certificate /etc/letsencrypt/live/{{.Domain}}/fullchain.pem;
    ssl_certificate_key /etc/letsencrypt/live/{{.Domain}}/privkey.pem;
{{end}}
    client_max_body_size 64M;

    gzip on;
    gzip_types text/css application/javascript application/json image/svg+xml;

    location / {
        proxy_pass http://127.0.0.1:{{.AppPort}};
        proxy_set_header Host $host;
        proxy_set_header X-Real-IP $remote_addr;
        proxy_set_header X-Forwarded-For $proxy_add_x_forwarded_for;
        proxy_set_header X-Forwarded-Proto $scheme;
    }
}
`))

var fpmTemplate = template.Must(template.New("fpm").Parse(`[www]
user = www-data
group = www-data
listen = 127.0.0.1:9000

pm = dynamic
pm.max_children = {{.MaxChildren}}
pm.start_servers = {{.StartServers}}
pm.min_spare_servers = {{.MinSpare}}
pm.max_spare_servers = {{.MaxChildren}}
pm.max_requests = 500
`))

// NginxConf renders the reverse-proxy server block. TLS directives are
// included for strict profiles; the dev profile serves plain HTTP.
func (c *Composer) NginxConf() (string, error) {
	if err := c.checkInterpolation(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err := nginxTemplate.Execute(&buf, struct {
		Domain  string
		AppPort int
		TLS     bool
	}{
		Domain:  c.Config.Domain,
		AppPort: AppPort,
		TLS:     c.Config.Profile.Strict(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render nginx config: %w", err)
	}
	return buf.String(), nil
}

// FPMConf renders the process-pool settings for the current tier.
func (c *Composer) FPMConf() (string, error) {
	workers := c.Resources.Params.Workers
	var buf bytes.Buffer
	err := fpmTemplate.Execute(&buf, struct {
		MaxChildren  int
		StartServers int
		MinSpare     int
	}{
		MaxChildren:  workers * 2,
		StartServers: workers,
		MinSpare:     1,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render php-fpm pool config: %w", err)
	}
	return buf.String(), nil
}
