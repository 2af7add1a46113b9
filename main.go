package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/moyoez/qrdrop/api"
	"github.com/moyoez/qrdrop/api/models"
	"github.com/moyoez/qrdrop/archive"
	"github.com/moyoez/qrdrop/netinfo"
	"github.com/moyoez/qrdrop/tool"
	"github.com/moyoez/qrdrop/types"
)

func main() {
	cfg := tool.SetFlags()
	tool.InitLogger()
	tool.SetLogMode(cfg.Log)

	if len(cfg.Paths) == 0 {
		tool.DefaultLogger.Fatal("No files given. Usage: qrdrop [flags] PATH [PATH...]")
	}

	appCfg := tool.LoadConfig(cfg.ConfigPath)
	interfaceName := cfg.Interface
	if interfaceName == "" {
		interfaceName = appCfg.Interface
	}

	// Bundle before anything else binds or is announced: the server never
	// starts with a partially built archive.
	needArchive, err := archive.ShouldArchive(cfg.Paths, cfg.Zip)
	if err != nil {
		tool.DefaultLogger.Fatalf("%v", err)
	}
	filePath := cfg.Paths[0]
	isArchive := false
	if needArchive {
		filePath, err = archive.Build(cfg.Paths)
		if err != nil {
			tool.DefaultLogger.Fatalf("Failed to build archive: %v", err)
		}
		isArchive = true
		tool.DefaultLogger.Infof("Built archive %s from %d input(s)", filePath, len(cfg.Paths))
	}

	session, err := models.NewSession(filePath, cfg.Password, cfg.ExpireSeconds, isArchive)
	if err != nil {
		startupFail(session, isArchive, filePath, "Failed to create session: %v", err)
	}

	ip, err := netinfo.ResolveBindAddress(interfaceName)
	if err != nil {
		startupFail(session, isArchive, filePath, "Failed to resolve bind address: %v", err)
	}

	server := api.NewServer(ip, cfg.Port, session, cfg.RateLimit)
	if err := server.Start(); err != nil {
		startupFail(session, isArchive, filePath, "Failed to start server: %v", err)
	}

	// Remember the interface only once it actually bound.
	if cfg.Interface != "" {
		if err := tool.SaveConfig(cfg.ConfigPath, types.AppConfig{Interface: cfg.Interface}); err != nil {
			tool.DefaultLogger.Warnf("Failed to persist interface choice: %v", err)
		}
	}

	go func() {
		if err := server.Serve(); err != nil {
			tool.DefaultLogger.Fatalf("Server failed: %v", err)
		}
	}()

	go func() {
		if ok, err := netinfo.GatewayReachable(2 * time.Second); err == nil && !ok {
			tool.DefaultLogger.Warn("Default gateway did not answer a ping; other devices may not reach this link")
		}
	}()

	url := tool.BuildDownloadURL(ip, server.Port(), session.Token, cfg.Password)
	fmt.Println("Scan this QR code to download:")
	tool.RenderTerminalQR(url)
	fmt.Printf("URL: %s\n", url)
	if cfg.Password != "" {
		tool.DefaultLogger.Info("Link is password protected (query param 'passed' or header X-Password)")
	}
	if cfg.ExpireSeconds > 0 {
		tool.DefaultLogger.Infof("Link will expire in %d seconds", cfg.ExpireSeconds)
	}
	if cfg.QROutPath != "" {
		if err := tool.WriteQRPNG(url, cfg.QROutPath); err != nil {
			tool.DefaultLogger.Warnf("Failed to write QR PNG: %v", err)
		} else {
			tool.DefaultLogger.Infof("QR code written to %s", cfg.QROutPath)
		}
	}
	if cfg.PrintJson {
		if err := tool.PrintSessionSummary(session, url); err != nil {
			tool.DefaultLogger.Warnf("Failed to print session summary: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	stop()

	tool.DefaultLogger.Info("Stopping, waiting for in-flight transfers to finish")
	if err := server.Shutdown(context.Background()); err != nil {
		tool.DefaultLogger.Errorf("Shutdown failed: %v", err)
	}
	if session.IsArchive {
		if err := archive.Remove(session.FilePath); err != nil {
			tool.DefaultLogger.Warnf("Failed to remove temporary archive: %v", err)
		}
	}
	tool.DefaultLogger.Infof("Transfer session ended. Total downloads: %d", session.Downloads())
}

// startupFail aborts before serving, removing the temporary archive so a
// failed run leaves nothing behind.
func startupFail(session *types.Session, isArchive bool, archivePath string, format string, args ...any) {
	if isArchive {
		if session != nil {
			archivePath = session.FilePath
		}
		if err := archive.Remove(archivePath); err != nil {
			tool.DefaultLogger.Warnf("Failed to remove temporary archive: %v", err)
		}
	}
	tool.DefaultLogger.Fatalf(format, args...)
}
