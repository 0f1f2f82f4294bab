package util

import (
	"fmt"
	"net"
)

// FindAvailablePort 从 startPort 起向后探测可用端口
// 向后最多试 20 个，全被占用时原样返回 startPort，让监听失败自己报错
func FindAvailablePort(startPort int) int {
	for port := startPort; port < startPort+20; port++ {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err != nil {
			continue
		}
		_ = ln.Close()
		return port
	}
	return startPort
}
