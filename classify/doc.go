// Package classify assigns each scanned register page its tabular layout
// variant from noisy full-page OCR text and the orientation of the scan.
//
// Classification is ordered substring matching against a keyword table. The
// groups are checked in the order Abteilung 3, Abteilung 2, Abteilung 1,
// Bestandsverzeichnis, so a page mentioning both "Abteilung" and "Hypothek"
// is an Abteilung 3 page. Secondary keywords ("Veränderungen", "Löschungen",
// "Abschreibungen") and the orientation then select the sub-variant:
//
//	c := classify.NewClassifier()
//	pt, err := c.Classify(ocrText, classify.OrientationOf(w, h))
//	if errors.Is(err, classify.ErrUnknownPageType) {
//	    // report the page, continue with the others
//	}
package classify
