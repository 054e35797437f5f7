package fusion

import (
	"context"
	"image"
	"time"

	"golang.org/x/sync/errgroup"
)

// PoseSink receives the per-frame pose list.
type PoseSink interface {
	PublishPoses(ctx context.Context, frameID string, stamp time.Time, poses []ObjectPose) error
}

// ImageSink receives the annotated image.
type ImageSink interface {
	PublishImage(ctx context.Context, img image.Image) error
}

// CloudSink receives one per-object cloud fragment at a time.
type CloudSink interface {
	PublishCloud(ctx context.Context, frag CloudFragment) error
}

// Sinks bundles the three output destinations. Any nil sink is skipped.
type Sinks struct {
	Poses  PoseSink
	Image  ImageSink
	Clouds CloudSink
}

// Publish fans a result out to the sinks. The three outputs go out
// concurrently; fragments are delivered in order within their sink.
func (p *Pipeline) Publish(ctx context.Context, res *Result, sinks Sinks) error {
	if res == nil {
		return nil
	}
	g, ctx := errgroup.WithContext(ctx)

	if sinks.Poses != nil {
		g.Go(func() error {
			return sinks.Poses.PublishPoses(ctx, res.PoseFrame, res.PoseStamp, res.Poses)
		})
	}
	if sinks.Image != nil && res.Annotated != nil {
		g.Go(func() error {
			return sinks.Image.PublishImage(ctx, res.Annotated)
		})
	}
	if sinks.Clouds != nil {
		g.Go(func() error {
			for _, frag := range res.Fragments {
				if err := sinks.Clouds.PublishCloud(ctx, frag); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
