// Package segment splits cleaned legal text of register entries into
// sentences.
//
// A period followed by whitespace and an upper-case letter ends a sentence,
// except after a configured abbreviation ("Abt.", "Nr.") and after a number
// that is followed by a month name ("1. Januar 2000").
//
//	sc := segment.NewSegmenter().Scanner(text)
//	for sc.Next() {
//		fmt.Println(sc.Text())
//	}
package segment
