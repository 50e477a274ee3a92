package cmd

import (
	"github.com/0glabs/0g-namespace/common"
	"github.com/0glabs/0g-namespace/history"
	"github.com/0glabs/0g-namespace/namespace"
	"github.com/0glabs/0g-namespace/namespace/snapshot"
	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"
)

// session is one CLI invocation over the namespace: loaded from the
// snapshot at start, saved back when the command succeeds.
type session struct {
	tree    *namespace.Tree
	store   *snapshot.FileStore
	history *history.BoltLog
}

func openSession() (*session, error) {
	logger := common.NewLogger(common.LogOption{Logger: logrus.StandardLogger()})

	mirror, err := namespace.NewOsMirror(conf.StorageRoot)
	if err != nil {
		return nil, err
	}

	log, err := openHistory(logger)
	if err != nil {
		return nil, err
	}

	store := snapshot.NewOsFileStore(conf.SnapshotPath, conf.SnapshotCompress)

	tree, report, err := snapshot.Load(store, mirror,
		namespace.WithLogger(logger),
		namespace.WithAccessLogger(log),
	)
	if err != nil {
		log.Close()
		return nil, errors.WithMessage(err, "failed to load namespace")
	}

	printReport(report)

	return &session{tree, store, log}, nil
}

func openHistory(logger *logrus.Logger) (*history.BoltLog, error) {
	return history.Open(history.Config{
		Path:      conf.HistoryPath,
		CacheSize: conf.HistoryCacheSize,
	}, logger)
}

func (s *session) close(persist bool) error {
	defer s.history.Close()

	if !persist {
		return nil
	}

	return snapshot.Save(s.store, s.tree)
}

// withSession runs fn on a freshly loaded namespace and saves it afterwards.
// Every mutation fn completed before failing is already applied to the
// mirror, so the tree is saved even when fn returns an error.
func withSession(fn func(s *session) error) error {
	s, err := openSession()
	if err != nil {
		return err
	}

	err = fn(s)
	if saveErr := s.close(true); saveErr != nil {
		if err != nil {
			logrus.WithError(saveErr).Error("Failed to save namespace snapshot")
			return err
		}
		return saveErr
	}

	return err
}

func printReport(report *snapshot.Report) {
	for _, repair := range report.Repairs {
		if repair.Err != nil {
			pterm.Error.Println(repair.String())
		} else {
			pterm.Warning.Println(repair.String())
		}
	}
}
