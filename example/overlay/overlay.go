package main

import (
	"context"
	"errors"
	"flag"
	"image"
	"io"
	"log"
	"os"

	golfswing "github.com/swdee/go-golfswing"
	"github.com/swdee/go-golfswing/overlay"
	"github.com/swdee/go-golfswing/record"
	"github.com/swdee/go-golfswing/render"
	"gocv.io/x/gocv"
)

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	// read in cli flags
	vidFile := flag.String("v", "../data/swing.mp4", "Video file of the swing")
	recFile := flag.String("r", "../data/swing.rec", "Pose recording captured from the video")
	outFile := flag.String("o", "../data/swing-overlay.avi", "Output video file")
	cfgFile := flag.String("c", "", "YAML configuration file")
	fontSize := flag.Float64("f", 18, "HUD font size")

	flag.Parse()

	cfg := golfswing.DefaultConfig()

	if *cfgFile != "" {
		var err error

		if cfg, err = golfswing.LoadConfig(*cfgFile); err != nil {
			log.Fatalf("Error loading config: %v\n", err)
		}
	}

	// open the pose recording
	f, err := os.Open(*recFile)

	if err != nil {
		log.Fatalf("Error opening recording: %v\n", err)
	}

	defer f.Close()

	rec, err := record.NewReader(f)

	if err != nil {
		log.Fatalf("Error reading recording: %v\n", err)
	}

	// timing follows the recording
	cfg.FrameRate = rec.Header().FrameRate
	cfg.Handedness = rec.Header().Handedness

	engine, err := golfswing.New(cfg)

	if err != nil {
		log.Fatalf("Error creating engine: %v\n", err)
	}

	// open handle to read frames of video file
	video, err := gocv.VideoCaptureFile(*vidFile)

	if err != nil {
		log.Fatalf("Error opening video: %v\n", err)
	}

	defer video.Close()

	width := int(video.Get(gocv.VideoCaptureFrameWidth))
	height := int(video.Get(gocv.VideoCaptureFrameHeight))

	writer, err := gocv.VideoWriterFile(*outFile, "MJPG", cfg.FrameRate, width, height, true)

	if err != nil {
		log.Fatalf("Error creating output video: %v\n", err)
	}

	defer writer.Close()

	face, err := overlay.NewFace(nil, *fontSize)

	if err != nil {
		log.Fatalf("Error loading font: %v\n", err)
	}

	trail := overlay.NewTrail(int(cfg.FrameRate*4), cfg.Handedness, cfg.Validation.MinVisibility)
	skelStyle := render.DefaultSkeletonStyle()
	skelStyle.MinVisibility = cfg.Validation.MinVisibility
	trailStyle := render.DefaultTrailStyle()
	font := render.DefaultFont()

	img := gocv.NewMat()
	defer img.Close()

	var last golfswing.Result
	frames := 0
	ctx := context.Background()

	for {
		// read the next frame from the video
		if ok := video.Read(&img); !ok {
			break
		}

		if img.Empty() {
			continue
		}

		pf, err := rec.Next(ctx)

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			log.Fatalf("Error reading pose frame: %v\n", err)
		}

		if res, ok := engine.Process(pf); ok {
			last = res
		}

		trail.Add(pf, last.Phase, width, height)

		render.Skeleton(&img, pf, cfg.Handedness, skelStyle)
		render.Trail(&img, trail, trailStyle)
		render.PhaseBanner(&img, last.Phase.String(), overlay.PhaseColor(last.Phase), font)

		if err := render.HUD(&img, face, overlay.Lines(last), image.Pt(8, 40)); err != nil {
			log.Printf("Error drawing HUD: %v\n", err)
		}

		if err := writer.Write(img); err != nil {
			log.Fatalf("Error writing video frame: %v\n", err)
		}

		frames++
	}

	stats := engine.Stats()

	log.Printf("Rendered %d frames, %d swings detected, %d invalid pose frames\n",
		frames, stats.Swings, stats.Invalid)
}
