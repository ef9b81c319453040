package syncplan

// UndoOperation reverses one structural mutation of the flattened graph.
// Operations are pushed onto the engine's stack immediately after the
// mutation they describe and replayed in LIFO order by Embed, so the stack
// always describes a valid path from the current graph back to the input.
type UndoOperation interface {
	Undo(sp *SyncPlan)
	String() string
}

func (sp *SyncPlan) pushUndo(op UndoOperation) {
	sp.undo = append(sp.undo, op)
}

// UndoDepth returns the number of pending undo operations.
func (sp *SyncPlan) UndoDepth() int { return len(sp.undo) }
