package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
	"gocv.io/x/gocv"

	"github.com/ayusman/showreel/internal/detector"
	"github.com/ayusman/showreel/internal/gesture"
)

// readRetryDelay throttles the detection loop while the camera keeps failing.
const readRetryDelay = 10 * time.Millisecond

// StartTracking opens the camera and the detector and starts the detection
// loop. Failures are retried with exponential backoff up to
// tracking.init_attempts times; the last error is returned and the render
// loop carries on in idle mode. ctx only bounds the startup.
func (a *App) StartTracking(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.tracking.Load() {
		return ErrTrackingActive
	}

	t := a.settings.Tracking
	attempts := t.InitAttempts
	if attempts < 1 {
		attempts = 1
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = t.InitBackoff
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	if t.InitBackoffMax > 0 {
		b.MaxInterval = t.InitBackoffMax
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts-1)), ctx)

	var det detector.Detector
	var lastErr error
	attempt := 0
	tryOpen := func() error {
		attempt++
		d, err := a.open()
		if err != nil {
			lastErr = err
			return err
		}
		det = d
		return nil
	}
	notify := func(err error, next time.Duration) {
		log.Printf("Tracking start attempt %d/%d failed: %v (retrying in %v)", attempt, attempts, err, next)
	}

	if err := backoff.RetryNotify(tryOpen, policy, notify); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && lastErr != nil && errors.Is(err, ctxErr) {
			err = fmt.Errorf("%w (last error: %v)", err, lastErr)
		}
		err = fmt.Errorf("start tracking: %w", err)
		log.Printf("Tracking unavailable: %v", err)
		return err
	}

	a.detector = det

	loopCtx, cancel := context.WithCancel(context.Background())
	a.stop = cancel
	a.done = make(chan struct{})
	a.tracking.Store(true)

	go a.runTracking(loopCtx, det, a.interpreter, a.done)

	mode := a.camera.Mode()
	log.Printf("Tracking started: camera %d at %dx%d@%d", mode.Device, mode.Width, mode.Height, mode.FPS)
	return nil
}

// open brings up the camera and a detector, undoing the camera on failure.
func (a *App) open() (detector.Detector, error) {
	if err := a.camera.Open(); err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}
	det, err := a.newDetector()
	if err != nil {
		a.camera.Close()
		return nil, fmt.Errorf("detector: %w", err)
	}
	return det, nil
}

// StopTracking stops the detection loop, releases the camera and the
// detector, and publishes a final absent sample so the scene falls back to
// idle. Stopping when not tracking is a no-op.
func (a *App) StopTracking() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.tracking.Load() {
		return nil
	}

	a.stop()
	<-a.done

	var errs []error
	if err := a.camera.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close camera: %w", err))
	}
	if err := a.detector.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close detector: %w", err))
	}

	// the loop has exited, so the interpreter is ours again
	a.slot.Store(a.interpreter.Update(nil))

	a.detector = nil
	a.stop = nil
	a.done = nil
	a.tracking.Store(false)

	log.Println("Tracking stopped")
	return errors.Join(errs...)
}

// SetTracking starts or stops tracking.
func (a *App) SetTracking(ctx context.Context, enabled bool) error {
	if enabled {
		err := a.StartTracking(ctx)
		if errors.Is(err, ErrTrackingActive) {
			return nil
		}
		return err
	}
	return a.StopTracking()
}

// IsTracking reports whether the detection loop is running.
func (a *App) IsTracking() bool {
	return a.tracking.Load()
}

// runTracking is the detection loop. It runs back to back: each iteration
// starts as soon as the previous frame has been read and analysed, so its
// rate is whatever capture and inference allow. Every iteration publishes
// exactly one sample, absent when the frame could not be read or analysed.
func (a *App) runTracking(ctx context.Context, det detector.Detector, in *gesture.Interpreter, done chan<- struct{}) {
	defer close(done)

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frame, err := a.camera.ReadFrame()
		if err != nil {
			if failures%100 == 0 {
				log.Printf("Error reading frame: %v", err)
			}
			failures++
			a.slot.Store(in.Update(nil))

			if wait(ctx, readRetryDelay) != nil {
				return
			}
			continue
		}
		failures = 0

		hands, err := det.Detect(frame)
		if err != nil {
			log.Printf("Error detecting hands: %v", err)
			hands = nil
		}

		a.slot.Store(in.UpdateFirst(hands))
		a.publishPreview(frame, hands)
		frame.Close()
	}
}

// publishPreview renders the overlay for the frame just analysed.
func (a *App) publishPreview(frame *gocv.Mat, hands []detector.HandLandmarks) {
	var hand *detector.HandLandmarks
	if len(hands) > 0 {
		hand = &hands[0]
	}
	data, err := a.overlay.Render(frame, hand)
	if err != nil {
		return
	}
	a.preview.Publish(data)
}

// wait sleeps for d or until ctx is done. The detection loop uses it to
// throttle read failures.
func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
