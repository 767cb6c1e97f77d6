// Command kabidw extracts kernel ABI type catalogs from ELF/DWARF objects
// and compares two such catalogs for ABI-relevant changes.
package main

func main() {
	execute()
}
