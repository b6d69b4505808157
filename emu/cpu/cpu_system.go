/*
   COP0 opcode group: MFC0/MTC0/RFE, dispatched on the rs field the way real
   hardware decodes COP0 sub-operations.

   Copyright (c) 2024, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   ROBERT M SUPNIK BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*/

package cpu

func (c *CPU) opCOP0(d decoded) {
	switch d.rs {
	case 0x00: // MFC0
		c.queueLoad(d.rt, c.cop0.Read(int(d.rd)))
	case 0x04: // MTC0
		c.cop0.Write(int(d.rd), c.GetReg(d.rt))
	case 0x10: // CO-format: funct selects RFE (0x10)
		if d.funct == 0x10 {
			c.cop0.ReturnFromException()
		} else {
			c.opReserved(d)
		}
	default:
		c.opReserved(d)
	}
}
