package detection

import "fmt"

// job is one pending visit in the flood fill: a cell and the group being
// propagated into it.
type job struct {
	x, y  int
	group int
}

// CapacityError reports that the flood fill needed more queued jobs than the
// Labeler's QueueLimit allows. The frame should be rejected; the Labeler is
// left in a consistent state and can label the next frame.
type CapacityError struct {
	Limit int // configured maximum number of queued jobs
	Cells int // number of cells in the grid being labeled
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("label queue capacity exceeded: limit %d jobs for %d cells", e.Limit, e.Cells)
}

// Labeler partitions the foreground units of a grid into maximal
// 4-connected groups.
//
// A Labeler is the per-invocation context for labeling: it holds the group
// id pool, the seed-scan cursor and the job queue. All three are reset at the
// start of every Label call, so one Labeler can be reused across frames
// without stale ids leaking from one frame into the next.
//
// A Labeler is not safe for concurrent use.
type Labeler struct {
	// QueueLimit caps the number of jobs that may be queued at once.
	// Zero means the queue grows as needed.
	QueueLimit int

	queue     []job
	cursor    int
	nextGroup int
	highWater int
}

// NewLabeler returns a Labeler whose queue is preallocated for grids of the
// given cell count.
func NewLabeler(cells int) *Labeler {
	return &Labeler{queue: make([]job, 0, 2*cells)}
}

// HighWater returns the largest queue length reached by the last Label call.
func (l *Labeler) HighWater() int {
	return l.highWater
}

// Label assigns a group id to every foreground unit and returns the number
// of groups created. Group ids run from 1 to the returned count.
//
// # Algorithm
//
//  1. Scan row-major from a cursor for the next foreground unit whose group
//     is still 0. The cursor is never rewound within a call, so seed finding
//     costs O(N) over the whole grid.
//  2. Push the seed with a fresh group id onto an explicit LIFO queue.
//  3. Pop a job. If its unit is foreground and unassigned, claim it and push
//     its in-bounds neighbours (left, up, down, right). Otherwise drop it; a
//     cell can be queued several times before it is claimed.
//  4. When the queue is empty, go back to step 1.
//
// Units must have been freshly classified (groups all 0). On a
// *CapacityError the count is 0 and the unit grid is partially labeled; it
// must be discarded.
func (l *Labeler) Label(units []Unit, width, height int) (int, error) {
	l.queue = l.queue[:0]
	l.cursor = 0
	l.nextGroup = 1
	l.highWater = 0

	for {
		seed, ok := l.findNextSeed(units)
		if !ok {
			break
		}
		group := l.nextGroup
		l.nextGroup++

		if err := l.push(job{x: seed % width, y: seed / width, group: group}, len(units)); err != nil {
			return 0, err
		}

		for len(l.queue) > 0 {
			j := l.queue[len(l.queue)-1]
			l.queue = l.queue[:len(l.queue)-1]

			u := &units[j.y*width+j.x]
			if !u.Foreground || u.Group != 0 {
				continue
			}
			u.Group = j.group

			if j.x > 0 {
				if err := l.push(job{x: j.x - 1, y: j.y, group: j.group}, len(units)); err != nil {
					return 0, err
				}
			}
			if j.y > 0 {
				if err := l.push(job{x: j.x, y: j.y - 1, group: j.group}, len(units)); err != nil {
					return 0, err
				}
			}
			if j.y < height-1 {
				if err := l.push(job{x: j.x, y: j.y + 1, group: j.group}, len(units)); err != nil {
					return 0, err
				}
			}
			if j.x < width-1 {
				if err := l.push(job{x: j.x + 1, y: j.y, group: j.group}, len(units)); err != nil {
					return 0, err
				}
			}
		}
	}

	return l.nextGroup - 1, nil
}

// findNextSeed resumes the row-major scan at the cursor. Every unit before
// the cursor is either background or already claimed.
func (l *Labeler) findNextSeed(units []Unit) (int, bool) {
	for ; l.cursor < len(units); l.cursor++ {
		if units[l.cursor].Foreground && units[l.cursor].Group == 0 {
			return l.cursor, true
		}
	}
	return 0, false
}

func (l *Labeler) push(j job, cells int) error {
	if l.QueueLimit > 0 && len(l.queue) >= l.QueueLimit {
		l.queue = l.queue[:0]
		return &CapacityError{Limit: l.QueueLimit, Cells: cells}
	}
	l.queue = append(l.queue, j)
	if len(l.queue) > l.highWater {
		l.highWater = len(l.queue)
	}
	return nil
}
