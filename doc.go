// Package termvt manages Linux virtual terminals.
//
// A Console wraps the console control device. It allocates vts, opens
// existing ones, switches the active vt and locks switching:
//
//	c, err := termvt.Open()
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
//	vt, err := c.NewVTWithMinimum(7)
//	if err != nil {
//		return err
//	}
//	defer vt.Close() // releases the vt
//
//	fmt.Fprintf(vt, "Hello from vt %d\n", vt.Number())
//	if err := vt.Switch(); err != nil {
//		return err
//	}
//
// The package builds on unix platforms only (it exchanges unix.Termios
// with the kernel). The vt requests themselves need Linux, elsewhere they
// fail with ErrPlatformNotSupported.
//
// Allocation is not atomic with respect to other processes: a vt reported
// as free can be taken by someone else before it is opened here.
package termvt
