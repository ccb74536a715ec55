// Package shape encodes record versions into the four-partition layout and
// evaluates query IR predicates against encoded shapes in memory.
//
// A version is stored in exactly one partition, chosen by which of its ends
// are still open (NOW):
//
//	tt_to  vt_to  partition  valid interval      transaction interval
//	NOW    NOW    P1         [vt_from, vt_from]  [tt_from, tt_from]
//	NOW    set    P2         [vt_from, vt_to]    [tt_from, tt_from]
//	set    NOW    P3         [vt_from, vt_from]  [tt_from, tt_to]
//	set    set    P4         [vt_from, vt_to]    [tt_from, tt_to]
//
// Open ends collapse to their start point, so a query bound of (MIN, x) on an
// open axis finds every version that started at or before x.
//
// The in-memory matcher is the reference backend; querysql must agree with it.
package shape
