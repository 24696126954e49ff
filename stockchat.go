// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package main

import (
	"flag"
	"fmt"

	"github.com/abhinavsingh1103/OnBoarding-ChatBot/internal/cli"
	"github.com/abhinavsingh1103/OnBoarding-ChatBot/internal/config"
	"github.com/abhinavsingh1103/OnBoarding-ChatBot/internal/handler"
	"github.com/abhinavsingh1103/OnBoarding-ChatBot/internal/svc"

	"github.com/zeromicro/go-zero/rest"
)

var configFile = flag.String("f", "etc/stockchat.yaml", "the config file")

func main() {
	flag.Parse()

	cfg := config.MustLoad(*configFile)
	cli.LogConfigSummary(cfg)

	server := rest.MustNewServer(cfg.RestConf, rest.WithCors())
	defer server.Stop()

	ctx := svc.NewServiceContext(*cfg)
	defer ctx.Close()
	handler.RegisterHandlers(server, ctx)

	fmt.Printf("Starting server at %s:%d...\n", cfg.Host, cfg.Port)
	server.Start()
}
