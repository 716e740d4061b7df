package pose

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadLayout reads a keypoint layout from the given text file.  It should
// contain one landmark name per line in model output order, a line of "-"
// marks a keypoint without a canonical landmark.  Blank lines and lines
// starting with # are ignored.
func LoadLayout(file string) (Layout, error) {

	// open the file
	f, err := os.Open(file)

	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}

	defer f.Close()

	scanner := bufio.NewScanner(f)

	var layout Layout
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if line == "-" {
			layout = append(layout, NoLandmark)
			continue
		}

		id, err := ParseLandmark(line)

		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrLayout, lineNum, err)
		}

		layout = append(layout, id)
	}

	// check for errors during scanning
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	if len(layout) == 0 {
		return nil, fmt.Errorf("%w: %s holds no keypoints", ErrLayout, file)
	}

	return layout, nil
}

// LayoutByName returns one of the built in layouts, "coco17" or "mediapipe33"
func LayoutByName(name string) (Layout, error) {

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "coco", "coco17", "yolov8-pose":
		return COCO17Layout, nil
	case "mediapipe", "mediapipe33", "blazepose":
		return MediaPipe33Layout, nil
	}

	return nil, fmt.Errorf("%w: unknown layout %q", ErrLayout, name)
}
