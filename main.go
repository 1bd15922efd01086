package main

import (
	"fmt"
	"log"
	"time"

	"github.com/earthboundkid/versioninfo/v2"
	"github.com/joho/godotenv"
	"github.com/rm-hull/affine-warp/cmd"
	"github.com/rm-hull/affine-warp/internal"
	"github.com/rm-hull/affine-warp/internal/warp"
	"github.com/spf13/cobra"
)

func main() {
	var port int
	var debug bool
	var interval time.Duration
	var schedule string
	var warpCfg cmd.WarpConfig
	var batchCfg internal.BatchConfig
	var serverCfg internal.BatchConfig

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	defaultWorkers := cmd.EnvInt("WARP_WORKERS", warp.AllCPUs)
	defaultOutDir := cmd.EnvString("WARP_OUTPUT_DIR", "./data/out")

	rootCmd := &cobra.Command{
		Use:  "affine-warp",
		Long: `Affine image warping from point correspondences`,
	}

	warpCmd := &cobra.Command{
		Use:   "warp --in <file> --out <file> --points <pairs> [--method nearest|bilinear]",
		Short: "Warp a single image",
		Long: `Warp a single image through the affine transform fitted to the given point pairs.

Pairs are written as "row,col:row,col" (source:destination) separated by ';'.
Exactly three pairs are solved exactly, more are fitted by least squares.`,
		Run: func(_ *cobra.Command, _ []string) {
			if err := cmd.Warp(warpCfg); err != nil {
				log.Fatal(err)
			}
		},
	}

	warpCmd.Flags().StringVar(&warpCfg.InFile, "in", "", "Source image (png, jpeg, gif, bmp, tiff, webp)")
	warpCmd.Flags().StringVar(&warpCfg.OutFile, "out", "", "Output PNG")
	warpCmd.Flags().StringVar(&warpCfg.Points, "points", "", "Point correspondences, e.g. \"0,0:10,5;100,0:110,5;0,100:10,105\"")
	warpCmd.Flags().StringVar(&warpCfg.Method, "method", "bilinear", "Interpolation method: nearest or bilinear")
	warpCmd.Flags().IntVar(&warpCfg.Width, "width", 0, "Output width (default: source width)")
	warpCmd.Flags().IntVar(&warpCfg.Height, "height", 0, "Output height (default: source height)")
	warpCmd.Flags().IntVar(&warpCfg.Workers, "workers", defaultWorkers, "Row bands warped concurrently (-1 for one per CPU)")
	warpCmd.Flags().StringVar(&warpCfg.CompareFile, "compare", "", "Also write an animated PNG comparing source, nearest and bilinear")
	_ = warpCmd.MarkFlagRequired("in")
	_ = warpCmd.MarkFlagRequired("out")
	_ = warpCmd.MarkFlagRequired("points")

	batchCmd := &cobra.Command{
		Use:   "batch [--inbox <path>] [--out <path>] [--pool <n>] [--schedule <cron>]",
		Short: "Process warp job manifests",
		Run: func(_ *cobra.Command, _ []string) {
			if err := cmd.Batch(batchCfg, schedule); err != nil {
				log.Fatal(err)
			}
		},
	}

	batchCmd.Flags().StringVar(&batchCfg.InboxDir, "inbox", "./data/inbox", "Folder of *.json job manifests")
	batchCmd.Flags().StringVar(&batchCfg.OutDir, "out", defaultOutDir, "Folder to write results to")
	batchCmd.Flags().IntVar(&batchCfg.PoolSize, "pool", 2, "Number of jobs processed concurrently")
	batchCmd.Flags().IntVar(&batchCfg.WarpWorkers, "workers", defaultWorkers, "Row bands warped concurrently per job")
	batchCmd.Flags().StringVar(&schedule, "schedule", "", "Cron schedule, e.g. \"*/5 * * * *\" (default: run once)")

	apiServerCmd := &cobra.Command{
		Use:   "api-server [--port <port>] [--out <path>] [--inbox <path>] [--debug]",
		Short: "Start HTTP API server",
		Run: func(_ *cobra.Command, _ []string) {
			cmd.ApiServer(cmd.ServerConfig{
				Port:     port,
				Debug:    debug,
				Batch:    serverCfg,
				Interval: interval,
			})
		},
	}

	apiServerCmd.Flags().IntVar(&port, "port", 8080, "Port to run HTTP server on")
	apiServerCmd.Flags().BoolVar(&debug, "debug", false, "Enable debugging (pprof) - WARNING: do not enable in production")
	apiServerCmd.Flags().StringVar(&serverCfg.InboxDir, "inbox", "", "Folder of *.json job manifests to process in the background")
	apiServerCmd.Flags().StringVar(&serverCfg.OutDir, "out", defaultOutDir, "Folder batch results are written to and served from")
	apiServerCmd.Flags().IntVar(&serverCfg.PoolSize, "pool", 2, "Number of jobs processed concurrently")
	apiServerCmd.Flags().IntVar(&serverCfg.WarpWorkers, "workers", defaultWorkers, "Row bands warped concurrently per request")
	apiServerCmd.Flags().DurationVar(&interval, "interval", 5*time.Minute, "How often to check the inbox")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(versioninfo.Short())
		},
	}

	rootCmd.AddCommand(warpCmd, batchCmd, apiServerCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
