// Command segsession serves a demo application on top of the segmented
// session store and manages its database schema.
package main

func main() {
	Execute()
}
