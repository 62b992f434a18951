package remote

// PrepareHostScript installs the packages a deployment needs. It is a
// literal script: no values are substituted, so the $(...) and shell
// conditionals below run on the host untouched. Every step is guarded to
// keep re-runs cheap on an already prepared host.
const PrepareHostScript = `set -e
export DEBIAN_FRONTEND=noninteractive
apt_install() {
    for pkg in "$@"; do
        if ! dpkg -s "$pkg" >/dev/null 2>&1; then
            sudo -n apt-get install -y "$pkg"
        fi
    done
}
sudo -n apt-get update -qq
apt_install docker.io docker-compose-v2 nginx rsync curl
sudo -n systemctl enable --now docker
sudo -n systemctl enable --now nginx
if [ -n "$USER" ] && [ "$USER" != "root" ]; then
    sudo -n usermod -aG docker "$USER" || true
fi
`
