// Package todo holds the task list, resolves task references, and reads and
// writes the task file.
//
// The task file is a 2-space indented JSON document:
//
//	{
//	  "name": "groceries",
//	  "tasks": [
//	    {
//	      "id": 1,
//	      "name": "Buy milk",
//	      "status": "pending"
//	    }
//	  ]
//	}
//
// # Task references
//
// A reference containing ':' selects a task by id. The colon may lead
// (":3") or trail ("3:"). Any other reference selects a task by exact name.
// This is why task names may never contain ':'.
//
// # Validation
//
// Files are checked against an embedded JSON Schema (draft 2020-12) and then
// against the invariants the schema cannot express: ids and names are unique
// within a list. The schema only checks shape. Unknown task fields are
// ignored and dropped on the next save, and a stored name that Add would
// reject (blank, or containing ':') still loads and is reachable by id.
//
// # Ids
//
// Ids are assigned in order and never reused while the process runs. A List
// remembers the highest id it has handed out, so removing the newest task and
// adding another yields a fresh id.
package todo
