package gateway

import (
	"github.com/0glabs/0g-namespace/common/api"
	"github.com/0glabs/0g-namespace/namespace"
)

// Namespace errors, one business code per kind.
var (
	ErrNotFound               = api.NewBusinessError(10, "Not found")
	ErrDuplicateName          = api.NewBusinessError(11, "Duplicate name")
	ErrInvalidName            = api.NewBusinessError(12, "Invalid name")
	ErrInvalidOperationOnRoot = api.NewBusinessError(13, "Invalid operation on root")
	ErrNotAFolder             = api.NewBusinessError(14, "Not a folder")
	ErrNotAFile               = api.NewBusinessError(15, "Not a file")
	ErrInvalidDestination     = api.NewBusinessError(16, "Invalid destination")
	ErrIOFailure              = api.NewBusinessError(17, "IO failure")
)

var kindErrors = map[namespace.Kind]*api.BusinessError{
	namespace.KindNotFound:               ErrNotFound,
	namespace.KindDuplicateName:          ErrDuplicateName,
	namespace.KindInvalidName:            ErrInvalidName,
	namespace.KindInvalidOperationOnRoot: ErrInvalidOperationOnRoot,
	namespace.KindNotAFolder:             ErrNotAFolder,
	namespace.KindNotAFile:               ErrNotAFile,
	namespace.KindInvalidDestination:     ErrInvalidDestination,
	namespace.KindIOFailure:              ErrIOFailure,
}

// businessError maps a namespace error onto its business error, carrying
// the full message as data.
func businessError(err error) *api.BusinessError {
	if be, ok := kindErrors[namespace.KindOf(err)]; ok {
		return be.WithData(err.Error())
	}
	return nil
}
