package fusion

import "strconv"

// convertDetections turns raw center+size detections into corner-form boxes.
// A detection whose id fails to parse is skipped without affecting the rest
// of the frame; the unparseable ids are returned so the caller can log them.
func convertDetections(raw []RawDetection) ([]Detection, []string) {
	boxes := make([]Detection, 0, len(raw))
	var skipped []string
	for _, rd := range raw {
		id, err := strconv.Atoi(rd.ID)
		if err != nil {
			skipped = append(skipped, rd.ID)
			continue
		}
		boxes = append(boxes, Detection{
			ID:   id,
			XMin: rd.CenterX - rd.SizeX/2.0,
			YMin: rd.CenterY - rd.SizeY/2.0,
			XMax: rd.CenterX + rd.SizeX/2.0,
			YMax: rd.CenterY + rd.SizeY/2.0,
		})
	}
	return boxes, skipped
}
