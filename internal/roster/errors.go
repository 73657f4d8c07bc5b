package roster

import "errors"

var (
	ErrAlreadyMember    = errors.New("user is already a member of this project")
	ErrAlreadyPending   = errors.New("join request already pending")
	ErrNoPendingRequest = errors.New("no pending join request for this user")
	ErrSelfRemoval      = errors.New("admins cannot remove themselves from a project")
	ErrNotAMember       = errors.New("user is not a member of this project")
	ErrCommentNotFound  = errors.New("comment not found")
)
