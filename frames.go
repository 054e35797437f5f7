package lidarfusion

import (
	"context"
	"fmt"
	"time"

	"go.viam.com/rdk/referenceframe"
	"go.viam.com/rdk/robot"
	"go.viam.com/rdk/spatialmath"
)

// machineTransformProvider resolves frame transforms through a Viam
// machine's frame system. The stamp is unused: the frame system always
// answers with the current transform.
type machineTransformProvider struct {
	machine robot.Robot
}

// LookupTransform asks the frame system for the pose of sourceFrame's
// origin expressed in targetFrame, which is exactly the rigid transform
// mapping source-frame points into the target frame.
func (m *machineTransformProvider) LookupTransform(ctx context.Context, sourceFrame, targetFrame string, _ time.Time) (spatialmath.Pose, error) {
	origin := referenceframe.NewPoseInFrame(sourceFrame, spatialmath.NewZeroPose())
	pif, err := m.machine.TransformPose(ctx, origin, targetFrame, nil)
	if err != nil {
		return nil, fmt.Errorf("frame system lookup %s to %s: %w", sourceFrame, targetFrame, err)
	}
	return pif.Pose(), nil
}
