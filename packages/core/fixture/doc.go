// Package fixture discovers input/expected-output fixture pairs for a script.
//
// A fixture is a "<name>.stdin" file fed to the script on standard input and
// a "<name>.out" file holding the expected standard output. Fixtures are
// matched to a script by substring: any input file whose name contains the
// script's base name belongs to it. Two scripts whose base names contain one
// another (add.py and add_v2.py) therefore share fixtures.
package fixture
