package nginx

import (
	"bytes"
	"fmt"
	"text/template"
)

// proxyHeaders is the header set every mode forwards to the application
const proxyHeaders = `        proxy_set_header Host $host;
        proxy_set_header X-Real-IP $remote_addr;
        proxy_set_header X-Forwarded-For $proxy_add_x_forwarded_for;
        proxy_set_header X-Forwarded-Proto $scheme;`

var httpTemplate = template.Must(template.New("http").Parse(`# {{.Identity}} - managed by shipward
server {
    listen 80;
    listen [::]:80;
    server_name _;

    location / {
        proxy_pass http://localhost:{{.Port}};
` + proxyHeaders + `
    }
}
`))

var selfSignedTemplate = template.Must(template.New("selfsigned").Parse(`# {{.Identity}} - managed by shipward
server {
    listen 80;
    listen [::]:80;
    server_name _;

    return 301 https://$host$request_uri;
}

server {
    listen 443 ssl;
    listen [::]:443 ssl;
    server_name _;

    ssl_certificate {{.CertPath}};
    ssl_certificate_key {{.KeyPath}};
    ssl_protocols TLSv1.2 TLSv1.3;
    ssl_ciphers HIGH:!aNULL:!MD5;
    ssl_prefer_server_ciphers on;

    location / {
        proxy_pass http://localhost:{{.Port}};
` + proxyHeaders + `
    }
}
`))

// managedTemplate is the pre-issuance site: plain HTTP, scoped to the
// literal domain so certbot's ownership challenge and in-place rewrite
// target exactly this server block.
var managedTemplate = template.Must(template.New("managed").Parse(`# {{.Identity}} - managed by shipward
server {
    listen 80;
    listen [::]:80;
    server_name {{.Domain}};

    location / {
        proxy_pass http://localhost:{{.Port}};
` + proxyHeaders + `
    }
}
`))

type siteData struct {
	Identity string
	Port     int
	Domain   string
	CertPath string
	KeyPath  string
}

func render(t *template.Template, data siteData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render site definition: %w", err)
	}
	return buf.String(), nil
}
