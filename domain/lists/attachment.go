package lists

import "fmt"

// Attachment policy names accepted by ParseAttachmentPolicy.
const (
	AttachByIdentity   = "by-identity"
	AttachByOrderIndex = "order-index"
)

// AttachmentPolicy decides which list in a read-all page receives the tasks
// fetched for page[source].
type AttachmentPolicy interface {
	Name() string
	Attach(page []ListView, source int, tasks []TaskSummary) error
}

// ParseAttachmentPolicy resolves a policy by name. Empty selects by-identity.
func ParseAttachmentPolicy(name string) (AttachmentPolicy, error) {
	switch name {
	case "", AttachByIdentity:
		return IdentityAttachment{}, nil
	case AttachByOrderIndex:
		return OrderIndexAttachment{}, nil
	default:
		return nil, fmt.Errorf("unknown task attachment policy %q", name)
	}
}

// IdentityAttachment appends tasks to the list they were queried for.
type IdentityAttachment struct{}

func (IdentityAttachment) Name() string { return AttachByIdentity }

func (IdentityAttachment) Attach(page []ListView, source int, tasks []TaskSummary) error {
	if source < 0 || source >= len(page) {
		return fmt.Errorf("attach tasks: source %d outside page of %d", source, len(page))
	}
	page[source].Tasks = append(page[source].Tasks, summariesOf(tasks)...)
	return nil
}

// OrderIndexAttachment keeps the deployed behaviour: the list's own Order is
// used as the index into the page. Lists whose Order is not their position
// hand their tasks to a sibling, and an Order outside the page fails the
// whole read.
type OrderIndexAttachment struct{}

func (OrderIndexAttachment) Name() string { return AttachByOrderIndex }

func (OrderIndexAttachment) Attach(page []ListView, source int, tasks []TaskSummary) error {
	if len(tasks) == 0 {
		return nil
	}
	if source < 0 || source >= len(page) {
		return fmt.Errorf("attach tasks: source %d outside page of %d", source, len(page))
	}

	target := page[source].Order
	if target < 0 || target >= len(page) {
		return fmt.Errorf("%w: list %s has order %d, page has %d lists",
			ErrOrderOutOfRange, page[source].UUID, target, len(page))
	}
	page[target].Tasks = append(page[target].Tasks, summariesOf(tasks)...)
	return nil
}
