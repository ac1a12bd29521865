package main

import (
	"flag"
	"log"

	"github.com/yockii/ppt_tools/internal/server"
)

func main() {
	configFile := flag.String("config", "conf/config.yaml", "配置文件路径")
	flag.Parse()

	if err := server.Run(*configFile); err != nil {
		log.Fatalf("服务停止: %v", err)
	}
}
