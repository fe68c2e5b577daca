package command

// Script is an ordered sequence of commands. Order is execution order.
type Script []Command

// Append returns the script with cmd appended.
func (s Script) Append(cmd Command) Script {
	return append(s, cmd)
}

// Len returns the number of commands.
func (s Script) Len() int {
	return len(s)
}

// ReferencedLocations returns the distinct location names the script
// references, in first-reference order. Literal point targets are not
// locations and are excluded.
func (s Script) ReferencedLocations() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}

	for _, cmd := range s {
		switch c := cmd.(type) {
		case MoveTo:
			if c.Target.IsNamed() {
				add(c.Target.Name)
			}
		case Click:
			add(c.Location)
		case ClickAndHold:
			add(c.Location)
		case Drag:
			add(c.From)
			add(c.To)
		}
	}
	return names
}
