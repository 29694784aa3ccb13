package handlers

import (
	"lists-ms/application/commands"
	"lists-ms/application/commands/bus"
)

// Register binds every list and task command to its handler
func Register(
	b *bus.CommandBus,
	saveList *SaveListHandler,
	deleteList *DeleteListHandler,
	saveTask *SaveTaskHandler,
	deleteTask *DeleteTaskHandler,
) error {
	registrations := []struct {
		cmd     bus.Command
		handler bus.CommandHandler
	}{
		{commands.SaveListCommand{}, bus.HandlerFor(saveList.Handle)},
		{commands.DeleteListCommand{}, bus.HandlerFor(deleteList.Handle)},
		{commands.SaveTaskCommand{}, bus.HandlerFor(saveTask.Handle)},
		{commands.DeleteTaskCommand{}, bus.HandlerFor(deleteTask.Handle)},
	}

	for _, r := range registrations {
		if err := b.Register(r.cmd, r.handler); err != nil {
			return err
		}
	}
	return nil
}
