package negative

import (
	"fmt"
	"time"

	"k8s.io/klog/v2"

	"github.com/skagerrak/filmtag/pkg/meta"
	"github.com/skagerrak/filmtag/pkg/rolls"
)

// Result is the per-image outcome of a batch operation, in input
// order.
type Result struct {
	Path string
	Err  error
}

// TagBatch applies a film roll's metadata to a sequence of scanned
// images, pairing the i-th image with the i-th populated frame of the
// roll. Author metadata is applied too when non-nil, dated by the
// given date or, when zero, each frame's capture time. Having more
// images than populated frames is an upfront error; fewer is fine,
// trailing frames are simply skipped.
func TagBatch(roll *rolls.Roll, images []string, author *meta.Metadata, date time.Time) ([]Result, error) {
	frames := make([]*rolls.Frame, 0, len(roll.Frames))
	for _, f := range roll.Frames {
		if f != nil {
			frames = append(frames, f)
		}
	}
	if len(images) > len(frames) {
		return nil, fmt.Errorf("film roll %s has %d annotated frames for %d images",
			roll.ID, len(frames), len(images))
	}

	results := make([]Result, 0, len(images))
	for i, path := range images {
		klog.V(1).Infof("tagging %s with frame %d of roll %s", path, i+1, roll.ID)
		results = append(results, Result{Path: path, Err: tagOne(path, roll, frames[i], author, date)})
	}
	return results, nil
}

func tagOne(path string, roll *rolls.Roll, frame *rolls.Frame, author *meta.Metadata, date time.Time) error {
	n, err := FromFile(path)
	if err != nil {
		return err
	}
	if err := n.ApplyRoll(roll); err != nil {
		return err
	}
	if err := n.ApplyFrame(frame); err != nil {
		return err
	}
	if author != nil {
		if err := n.ApplyAuthor(author, date); err != nil {
			return err
		}
	}
	return n.Save()
}

// AuthorBatch applies author and license metadata to a sequence of
// images, leaving any existing roll and frame metadata untouched. The
// copyright date comes from the given date or, when zero, each image's
// own capture date.
func AuthorBatch(images []string, author *meta.Metadata, date time.Time) []Result {
	results := make([]Result, 0, len(images))
	for _, path := range images {
		klog.V(1).Infof("applying author metadata to %s", path)
		results = append(results, Result{Path: path, Err: authorOne(path, author, date)})
	}
	return results
}

func authorOne(path string, author *meta.Metadata, date time.Time) error {
	n, err := FromFile(path)
	if err != nil {
		return err
	}
	if err := n.ApplyAuthor(author, date); err != nil {
		return err
	}
	return n.Save()
}
