package todo

// ToEntity converts a Todo to its persisted shape. The todo's ID must already
// be assigned; it becomes the row key within the shared partition.
func ToEntity(t Todo) Entity {
	return Entity{
		PartitionKey:    PartitionKey,
		RowKey:          t.ID,
		CreatedTime:     t.CreatedTime,
		TaskDescription: t.TaskDescription,
		IsCompleted:     t.IsCompleted,
	}
}

// ToTodo converts a persisted entity back to a Todo. The entity is not
// validated; the store is its only writer.
func ToTodo(e Entity) Todo {
	return Todo{
		ID:              e.RowKey,
		CreatedTime:     e.CreatedTime,
		TaskDescription: e.TaskDescription,
		IsCompleted:     e.IsCompleted,
	}
}

// ToTodos converts a page of persisted entities, preserving their order.
func ToTodos(entities []Entity) []Todo {
	todos := make([]Todo, 0, len(entities))
	for _, e := range entities {
		todos = append(todos, ToTodo(e))
	}
	return todos
}
