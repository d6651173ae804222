package serviceutil

import (
	"net"
	"os"
	"sync"
)

var (
	once    sync.Once
	hostIP  string
	hostnm  string
)

// Address возвращает адрес текущего узла в формате hostname/ip:port
// Используется сервисами чтобы помечать, какой инстанс обработал запрос
func Address(port string) string {
	once.Do(resolve)
	return hostnm + "/" + hostIP + ":" + port
}

func resolve() {
	hostnm, _ = os.Hostname()
	if hostnm == "" {
		hostnm = "unknown"
	}

	hostIP = "127.0.0.1"
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return
	}
	for _, addr := range addrs {
		if ipNet, ok := addr.(*net.IPNet); ok && !ipNet.IP.IsLoopback() && ipNet.IP.To4() != nil {
			hostIP = ipNet.IP.String()
			return
		}
	}
}
