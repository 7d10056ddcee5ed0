package roster

// Default returns the San Francisco Board of Supervisors roster as of 2025.
// Initials show up as vote markers in some committee minutes, so they ride
// along as aliases. Overridable via a roster config file.
func Default() *Roster {
	return New([]Member{
		{Name: "Connie Chan", District: 1, Aliases: []string{"CC"}},
		{Name: "Catherine Stefani", District: 2, Aliases: []string{"CS"}},
		{Name: "Aaron Peskin", District: 3, Aliases: []string{"AP"}},
		{Name: "Joel Engardio", District: 4, Aliases: []string{"JE"}},
		{Name: "Dean Preston", District: 5, Aliases: []string{"DP"}},
		{Name: "Matt Dorsey", District: 6, Aliases: []string{"MD"}},
		{Name: "Myrna Melgar", District: 7, Aliases: []string{"MM"}},
		{Name: "Rafael Mandelman", District: 8, Aliases: []string{"RM"}},
		{Name: "Hillary Ronen", District: 9, Aliases: []string{"HR"}},
		{Name: "Shamann Walton", District: 10, Aliases: []string{"SW"}},
		{Name: "Ahsha Safai", District: 11, Aliases: []string{"AS"}},
	})
}
