package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	lidarfusion "github.com/khaledgabr77/lidar-camera-fusion"
	"github.com/khaledgabr77/lidar-camera-fusion/fusion"
	"github.com/khaledgabr77/lidar-camera-fusion/internal/creds"

	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/robot/client"
	"go.viam.com/utils/rpc"
)

func main() {
	credsPath := flag.String("creds", "", "path to robot credentials JSON file")
	cameraName := flag.String("camera", "camera", "camera component name")
	detectorName := flag.String("detector", "detector", "vision service name")
	configPath := flag.String("config", "", "optional fusion config JSON file")
	flag.Parse()

	logger := logging.NewDebugLogger("lidar-camera-fusion")

	if *credsPath == "" {
		logger.Fatal("-creds flag is required")
	}
	robotCreds, err := creds.Load(*credsPath)
	if err != nil {
		logger.Fatal(err)
	}

	fusionCfg := fusion.DefaultConfig()
	if *configPath != "" {
		fusionCfg, err = fusion.ConfigFromFile(*configPath)
		if err != nil {
			logger.Fatal(err)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	machine, err := client.New(
		ctx,
		robotCreds.Address,
		logger,
		client.WithDialOptions(rpc.WithEntityCredentials(
			robotCreds.EntityID,
			rpc.Credentials{
				Type:    rpc.CredentialsTypeAPIKey,
				Payload: robotCreds.APIKey,
			})),
	)
	if err != nil {
		logger.Fatal(err)
	}
	defer machine.Close(context.Background())

	logger.Info("Connected to machine")

	node, err := lidarfusion.NewNode(ctx, machine, lidarfusion.NodeConfig{
		Camera:   *cameraName,
		Detector: *detectorName,
		Fusion:   fusionCfg,
	}, lidarfusion.LogSinks(logger), logger)
	if err != nil {
		logger.Fatal(err)
	}

	if err := node.Run(ctx); err != nil {
		logger.Fatal(err)
	}
}
