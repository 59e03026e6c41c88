package monitor

import (
	"sync"
	"time"

	"github.com/fsnotify/fsevents"
)

// FSEvents watches trees through the macOS FSEvents API, which is
// recursive on its own and flags directories in every event
type FSEvents struct {
	Latency time.Duration
}

func NewFSEvents() *FSEvents {
	return &FSEvents{Latency: 100 * time.Millisecond}
}

func (f FSEvents) Subscribe(path string) (Subscription, error) {
	dev, err := fsevents.DeviceForPath(path)
	if err != nil {
		return nil, err
	}

	stream := &fsevents.EventStream{
		Paths:   []string{path},
		Latency: f.Latency,
		Device:  dev,
		Flags:   fsevents.FileEvents | fsevents.WatchRoot,
	}
	stream.Start()

	s := &fseventsSubscription{
		stream: stream,
		events: make(chan Change),
		errs:   make(chan error),
		done:   make(chan struct{}),
	}
	s.wg.Add(1)
	go s.loop()
	return s, nil
}

type fseventsSubscription struct {
	stream *fsevents.EventStream
	events chan Change
	errs   chan error
	done   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

func (s *fseventsSubscription) Events() <-chan Change { return s.events }
func (s *fseventsSubscription) Errors() <-chan error  { return s.errs }

func (s *fseventsSubscription) Close() error {
	s.once.Do(func() {
		close(s.done)
		s.stream.Stop()
		s.wg.Wait()
	})
	return nil
}

func (s *fseventsSubscription) loop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.done:
			return
		case batch, ok := <-s.stream.Events:
			if !ok {
				return
			}
			for _, ev := range batch {
				select {
				case s.events <- translateFSEvent(ev):
				case <-s.done:
					return
				}
			}
		}
	}
}

func translateFSEvent(ev fsevents.Event) Change {
	path := ev.Path
	if len(path) > 0 && path[0] != '/' {
		path = "/" + path
	}

	c := Change{
		Path:  path,
		IsDir: ev.Flags&fsevents.ItemIsDir != 0,
		At:    time.Now(),
	}
	if ev.Flags&fsevents.ItemCreated != 0 {
		c.Op |= OpCreate
	}
	if ev.Flags&fsevents.ItemModified != 0 {
		c.Op |= OpWrite
	}
	if ev.Flags&fsevents.ItemRemoved != 0 {
		c.Op |= OpRemove
	}
	if ev.Flags&fsevents.ItemRenamed != 0 {
		c.Op |= OpRename
	}
	if ev.Flags&(fsevents.ItemChangeOwner|fsevents.ItemXattrMod|fsevents.ItemInodeMetaMod) != 0 {
		c.Op |= OpChmod
	}
	return c
}
