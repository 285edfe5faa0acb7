// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package appconfig persists the user's customization: application title,
record label, the four tab labels and the ordered column names.

	{
	  "app_title": "Adaptable Management System",
	  "record_name": "Record",
	  "tab_names": ["View", "Add", "Edit", "Delete"],
	  "columns": ["id", "name"]
	}

Files ending in .yaml or .yml are read and written as YAML instead.

Load never fails: a missing or malformed file is logged and Defaults are
used. Save always rewrites the whole file.

A Store is the single configuration object passed to the components that
need it. Its ColumnSet method makes it a store.ColumnSource. Hold and
Exclusive keep record statements out of the window where the table has been
rebuilt but the columns in memory have not been swapped yet.
*/
package appconfig
